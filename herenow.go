package relaycast

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/relaycast/relaycast-go/transport"
)

// HereNowResponse reports current presence on a channel.
type HereNowResponse struct {
	Occupancy int
	UUIDs     []string
}

// HereNowBuilder assembles a presence query. Without a channel it queries
// occupancy across the whole subscribe key.
type HereNowBuilder struct {
	c       *Client
	channel string
}

// HereNow starts a presence query.
func (c *Client) HereNow() *HereNowBuilder {
	return &HereNowBuilder{c: c}
}

// Channel restricts the query to one channel.
func (b *HereNowBuilder) Channel(channel string) *HereNowBuilder {
	b.channel = channel
	return b
}

func (b *HereNowBuilder) buildRequest() (*transport.Request, error) {
	cfg := b.c.config
	path := fmt.Sprintf("/v2/presence/sub-key/%s", url.PathEscape(cfg.SubscribeKey))
	if b.channel != "" {
		path += "/channel/" + url.PathEscape(b.channel)
	}
	return &transport.Request{
		Method: http.MethodGet,
		Path:   path,
		Params: map[string]string{"uuid": cfg.UUID},
	}, nil
}

// ParseHereNowResponse interprets the raw payload of a presence query.
// Channel-level queries carry occupancy and uuids at the top level; the
// key-wide form nests totals under a payload object.
func ParseHereNowResponse(raw interface{}) (*HereNowResponse, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("herenow: unexpected response shape %T", raw)
	}

	res := &HereNowResponse{}
	if payload, ok := obj["payload"].(map[string]interface{}); ok {
		if total, ok := payload["total_occupancy"].(float64); ok {
			res.Occupancy = int(total)
		}
		return res, nil
	}

	if occupancy, ok := obj["occupancy"].(float64); ok {
		res.Occupancy = int(occupancy)
	}
	if uuids, ok := obj["uuids"].([]interface{}); ok {
		res.UUIDs = make([]string, 0, len(uuids))
		for _, u := range uuids {
			if s, ok := u.(string); ok {
				res.UUIDs = append(res.UUIDs, s)
			}
		}
	}
	return res, nil
}

// Sync executes the query and blocks until the result.
func (b *HereNowBuilder) Sync(ctx context.Context) (*HereNowResponse, error) {
	req, err := b.buildRequest()
	if err != nil {
		return nil, err
	}
	raw, err := b.c.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return ParseHereNowResponse(raw)
}

// Async executes the query on a worker goroutine.
func (b *HereNowBuilder) Async(ctx context.Context, onSuccess func(*HereNowResponse), onError func(error)) {
	req, err := b.buildRequest()
	if err != nil {
		go invokeErr(onError, err)
		return
	}
	b.c.ExecuteAsync(ctx, req,
		func(raw interface{}) {
			res, perr := ParseHereNowResponse(raw)
			if perr != nil {
				invokeErr(onError, perr)
				return
			}
			if onSuccess != nil {
				onSuccess(res)
			}
		},
		onError)
}

// Future defers descriptor construction and execution to a worker.
func (b *HereNowBuilder) Future(ctx context.Context) *Future {
	return b.c.ExecuteDeferred(ctx, func() (*transport.Request, error) {
		return b.buildRequest()
	})
}
