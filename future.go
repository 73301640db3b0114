package relaycast

import (
	"context"
	"sync"
)

// Future is the handle returned by deferred dispatch. It settles exactly
// once, to either a payload or an error, and every Await observes the
// same outcome.
type Future struct {
	once    sync.Once
	done    chan struct{}
	payload interface{}
	err     error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(payload interface{}) {
	f.once.Do(func() {
		f.payload = payload
		close(f.done)
	})
}

func (f *Future) reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done. A settled future
// returns the payload or the classified execution error; a cancelled wait
// returns ctx.Err() without affecting the in-flight execution.
func (f *Future) Await(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
		return f.payload, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
