package relaycast

import (
	"context"
	"time"

	"github.com/relaycast/relaycast-go/transport"
)

// Execute runs the descriptor synchronously, blocking until the transport
// returns. On failure the returned error is always a *transport.Error.
// Exactly one terminal outcome is produced per invocation.
func (c *Client) Execute(ctx context.Context, req *transport.Request) (interface{}, error) {
	start := time.Now()
	payload, terr := c.exec.Execute(ctx, req, c.header)
	if c.observer != nil {
		outcome := "ok"
		if terr != nil {
			outcome = terr.Kind.String()
		}
		c.observer.Observe(req.Method, req.Path, outcome, time.Since(start))
	}
	if terr != nil {
		return nil, terr
	}
	return payload, nil
}

// ExecuteAsync hands the execution off to a worker goroutine without
// blocking the caller. Exactly one of onSuccess or onError is invoked,
// exactly once, when the execution completes. Nil callbacks are skipped;
// the execution still runs to completion.
func (c *Client) ExecuteAsync(ctx context.Context, req *transport.Request, onSuccess func(interface{}), onError func(error)) {
	go func() {
		payload, err := c.Execute(ctx, req)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(payload)
		}
	}()
}

// ExecuteDeferred schedules an execution whose descriptor is produced by
// build at the moment of execution, not at the moment of scheduling. The
// thunk is evaluated exactly once, on the worker. The returned Future
// resolves to the payload or rejects with the classified error.
func (c *Client) ExecuteDeferred(ctx context.Context, build func() (*transport.Request, error)) *Future {
	f := newFuture()
	go func() {
		req, err := build()
		if err != nil {
			f.reject(&transport.Error{Kind: transport.KindUnknown, Message: err.Error()})
			return
		}
		payload, xerr := c.Execute(ctx, req)
		if xerr != nil {
			f.reject(xerr)
			return
		}
		f.resolve(payload)
	}()
	return f
}
