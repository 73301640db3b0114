// Package retry implements retry and backoff policy on top of the
// dispatch core. The core itself never retries: every failure it
// classifies is surfaced exactly once, and this package decides whether
// to run the execution again.
//
// Only transient kinds are retried: timeouts, connection failures and
// server errors. Client errors, protocol errors and redirect failures
// repeat deterministically and are returned immediately.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/relaycast/relaycast-go/resilience"
	"github.com/relaycast/relaycast-go/transport"
)

// Call is any synchronous execution, typically a closure over an
// operation builder's Sync method or Client.Execute.
type Call func(ctx context.Context) (interface{}, error)

// Policy retries transient failures with jittered exponential backoff.
// The zero value is unusable; use New.
type Policy struct {
	maxRetries int
	minWait    time.Duration
	maxWait    time.Duration
	breaker    *resilience.Breaker
}

// Option customizes a Policy.
type Option func(*Policy)

// WithBreaker guards every attempt with a circuit breaker. While the
// breaker is open, Do fails fast with resilience.ErrOpen.
func WithBreaker(b *resilience.Breaker) Option {
	return func(p *Policy) { p.breaker = b }
}

// New builds a policy that retries up to maxRetries times, waiting
// between minWait and maxWait per attempt.
func New(maxRetries int, minWait, maxWait time.Duration, opts ...Option) *Policy {
	p := &Policy{maxRetries: maxRetries, minWait: minWait, maxWait: maxWait}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Retryable reports whether the error is worth another attempt.
func Retryable(err error) bool {
	var terr *transport.Error
	if !errors.As(err, &terr) {
		return false
	}
	switch terr.Kind {
	case transport.KindTimeout, transport.KindConnection, transport.KindServer:
		return true
	}
	return false
}

// Do runs call, retrying per the policy. The last error is returned
// unchanged, so callers still branch on transport error kinds.
func (p *Policy) Do(ctx context.Context, call Call) (interface{}, error) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			wait := retryablehttp.DefaultBackoff(p.minWait, p.maxWait, attempt-1, nil)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := p.attempt(ctx, call)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if errors.Is(err, resilience.ErrOpen) || !Retryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (p *Policy) attempt(ctx context.Context, call Call) (interface{}, error) {
	if p.breaker == nil {
		return call(ctx)
	}
	return p.breaker.Execute(func() (interface{}, error) {
		return call(ctx)
	})
}
