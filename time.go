package relaycast

import (
	"context"
	"fmt"
	"net/http"

	"github.com/relaycast/relaycast-go/transport"
)

// TimeBuilder queries the service clock. Useful as a connectivity probe
// and for clients that align local state with service timetokens.
type TimeBuilder struct {
	c *Client
}

// Time starts a service time query.
func (c *Client) Time() *TimeBuilder {
	return &TimeBuilder{c: c}
}

func (b *TimeBuilder) buildRequest() (*transport.Request, error) {
	return &transport.Request{
		Method: http.MethodGet,
		Path:   "/time/0",
		Params: map[string]string{"uuid": b.c.config.UUID},
	}, nil
}

// ParseTimeResponse interprets the raw payload: a one-element array
// holding the current service timetoken.
func ParseTimeResponse(raw interface{}) (int64, error) {
	arr, ok := raw.([]interface{})
	if !ok || len(arr) < 1 {
		return 0, fmt.Errorf("time: unexpected response shape %T", raw)
	}
	tt, ok := arr[0].(float64)
	if !ok {
		return 0, fmt.Errorf("time: unexpected timetoken %v", arr[0])
	}
	return int64(tt), nil
}

// Sync executes the query and blocks until the timetoken arrives.
func (b *TimeBuilder) Sync(ctx context.Context) (int64, error) {
	req, err := b.buildRequest()
	if err != nil {
		return 0, err
	}
	raw, err := b.c.Execute(ctx, req)
	if err != nil {
		return 0, err
	}
	return ParseTimeResponse(raw)
}

// Async executes the query on a worker goroutine.
func (b *TimeBuilder) Async(ctx context.Context, onSuccess func(int64), onError func(error)) {
	req, err := b.buildRequest()
	if err != nil {
		go invokeErr(onError, err)
		return
	}
	b.c.ExecuteAsync(ctx, req,
		func(raw interface{}) {
			tt, perr := ParseTimeResponse(raw)
			if perr != nil {
				invokeErr(onError, perr)
				return
			}
			if onSuccess != nil {
				onSuccess(tt)
			}
		},
		onError)
}

// Future defers descriptor construction and execution to a worker.
func (b *TimeBuilder) Future(ctx context.Context) *Future {
	return b.c.ExecuteDeferred(ctx, func() (*transport.Request, error) {
		return b.buildRequest()
	})
}
