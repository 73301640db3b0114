package relaycast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/relaycast/relaycast-go/transport"
)

// FireBuilder assembles a fire operation: a publish that is delivered to
// event handlers only, never replicated to subscribers and never stored
// in history. The acknowledgement has the same shape as a publish.
type FireBuilder struct {
	c       *Client
	channel string
	message interface{}
	usePost bool
}

// Fire starts a fire operation.
func (c *Client) Fire() *FireBuilder {
	return &FireBuilder{c: c}
}

// Channel sets the destination channel. Required.
func (b *FireBuilder) Channel(channel string) *FireBuilder {
	b.channel = channel
	return b
}

// Message sets the payload. Required.
func (b *FireBuilder) Message(message interface{}) *FireBuilder {
	b.message = message
	return b
}

// UsePost sends the encoded message as a POST body.
func (b *FireBuilder) UsePost(usePost bool) *FireBuilder {
	b.usePost = usePost
	return b
}

func (b *FireBuilder) buildRequest() (*transport.Request, error) {
	cfg := b.c.config
	if cfg.PublishKey == "" {
		return nil, fmt.Errorf("fire: publish key is required")
	}
	if b.channel == "" {
		return nil, fmt.Errorf("fire: channel is required")
	}
	if b.message == nil {
		return nil, fmt.Errorf("fire: message is required")
	}

	payload, err := json.Marshal(b.message)
	if err != nil {
		return nil, fmt.Errorf("fire: encoding message: %w", err)
	}

	// norep suppresses replication to subscribers, store=0 keeps the
	// message out of history. That pair is what distinguishes fire from
	// publish on the wire.
	params := map[string]string{
		"uuid":  cfg.UUID,
		"norep": "true",
		"store": "0",
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

// Sync executes the fire and blocks until the acknowledgement.
func (b *FireBuilder) Sync(ctx context.Context) (*PublishResponse, error) {
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

// Async executes the fire on a worker goroutine.
func (b *FireBuilder) Async(ctx context.Context, onSuccess func(*PublishResponse), onError func(error)) {
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

// Future defers descriptor construction and execution to a worker.
func (b *FireBuilder) Future(ctx context.Context) *Future {
	return b.c.ExecuteDeferred(ctx, func() (*transport.Request, error) {
		return b.buildRequest()
	})
}
