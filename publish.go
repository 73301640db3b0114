package relaycast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/relaycast/relaycast-go/transport"
)

// PublishResponse is the service acknowledgement for a published message.
type PublishResponse struct {
	// Timetoken is the service-assigned publish time.
	Timetoken int64
}

// PublishBuilder assembles a publish operation. The builder fully owns
// the request path and parameters; the dispatch core only sees the
// finished descriptor.
type PublishBuilder struct {
	c           *Client
	channel     string
	message     interface{}
	usePost     bool
	shouldStore *bool
	ttl         int
}

// Publish starts a publish operation.
func (c *Client) Publish() *PublishBuilder {
	return &PublishBuilder{c: c}
}

// Channel sets the destination channel. Required.
func (b *PublishBuilder) Channel(channel string) *PublishBuilder {
	b.channel = channel
	return b
}

// Message sets the payload. It is JSON-encoded at build time. Required.
func (b *PublishBuilder) Message(message interface{}) *PublishBuilder {
	b.message = message
	return b
}

// UsePost sends the encoded message as a POST body instead of a path
// segment.
func (b *PublishBuilder) UsePost(usePost bool) *PublishBuilder {
	b.usePost = usePost
	return b
}

// ShouldStore controls whether the service persists the message in
// history. Unset leaves the keyset default in place.
func (b *PublishBuilder) ShouldStore(store bool) *PublishBuilder {
	b.shouldStore = &store
	return b
}

// TTL sets the per-message time-to-live in hours, honored only when the
// message is stored.
func (b *PublishBuilder) TTL(hours int) *PublishBuilder {
	b.ttl = hours
	return b
}

func publishPath(publishKey, subscribeKey, channel string) string {
	return fmt.Sprintf("/publish/%s/%s/0/%s/0",
		url.PathEscape(publishKey), url.PathEscape(subscribeKey), url.PathEscape(channel))
}

func (b *PublishBuilder) buildRequest() (*transport.Request, error) {
	cfg := b.c.config
	if cfg.PublishKey == "" {
		return nil, fmt.Errorf("publish: publish key is required")
	}
	if b.channel == "" {
		return nil, fmt.Errorf("publish: channel is required")
	}
	if b.message == nil {
		return nil, fmt.Errorf("publish: message is required")
	}

	payload, err := json.Marshal(b.message)
	if err != nil {
		return nil, fmt.Errorf("publish: encoding message: %w", err)
	}

	params := map[string]string{"uuid": cfg.UUID}
	if b.shouldStore != nil {
		if *b.shouldStore {
			params["store"] = "1"
		} else {
			params["store"] = "0"
		}
	}
	if b.ttl > 0 {
		params["ttl"] = strconv.Itoa(b.ttl)
	}

	path := publishPath(cfg.PublishKey, cfg.SubscribeKey, b.channel)
	if b.usePost {
		return &transport.Request{Method: http.MethodPost, Path: path, Params: params, Body: payload}, nil
	}
	return &transport.Request{
		Method: http.MethodGet,
		Path:   path + "/" + url.PathEscape(string(payload)),
		Params: params,
	}, nil
}

// ParsePublishResponse interprets the raw payload of a publish-shaped
// operation: a three-element array of ack flag, description and
// timetoken. Used by Sync and Async internally, and by callers resolving
// a Future by hand.
func ParsePublishResponse(raw interface{}) (*PublishResponse, error) {
	arr, ok := raw.([]interface{})
	if !ok || len(arr) < 3 {
		return nil, fmt.Errorf("publish: unexpected response shape %T", raw)
	}
	ack, ok := arr[0].(float64)
	if !ok || ack != 1 {
		desc, _ := arr[1].(string)
		return nil, fmt.Errorf("publish: rejected by service: %s", desc)
	}
	tt, ok := arr[2].(string)
	if !ok {
		return nil, fmt.Errorf("publish: unexpected timetoken %v", arr[2])
	}
	timetoken, err := strconv.ParseInt(tt, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("publish: parsing timetoken %q: %w", tt, err)
	}
	return &PublishResponse{Timetoken: timetoken}, nil
}

// Sync executes the publish and blocks until the acknowledgement.
func (b *PublishBuilder) Sync(ctx context.Context) (*PublishResponse, error) {
	req, err := b.buildRequest()
	if err != nil {
		return nil, err
	}
	raw, err := b.c.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return ParsePublishResponse(raw)
}

// Async executes the publish on a worker goroutine. Exactly one of the
// two callbacks fires, exactly once.
func (b *PublishBuilder) Async(ctx context.Context, onSuccess func(*PublishResponse), onError func(error)) {
	req, err := b.buildRequest()
	if err != nil {
		go invokeErr(onError, err)
		return
	}
	b.c.ExecuteAsync(ctx, req,
		func(raw interface{}) {
			res, perr := ParsePublishResponse(raw)
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

// Future defers both descriptor construction and execution to a worker.
// The returned future resolves to the raw JSON payload; use
// ParsePublishResponse on it.
func (b *PublishBuilder) Future(ctx context.Context) *Future {
	return b.c.ExecuteDeferred(ctx, func() (*transport.Request, error) {
		return b.buildRequest()
	})
}

func invokeErr(onError func(error), err error) {
	if onError != nil {
		onError(err)
	}
}
