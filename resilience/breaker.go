// Package resilience provides a circuit breaker for callers that want to
// stop hammering the messaging service while it is failing. The dispatch
// core never consults it; the retry package wires it in front of
// executions when asked to.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned when the breaker rejects an execution outright.
var ErrOpen = errors.New("circuit breaker is open")

// State of the breaker.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Options tunes the breaker. Zero values select the defaults.
type Options struct {
	// FailureThreshold is the number of consecutive failures that trips
	// the breaker. Default 5.
	FailureThreshold int
	// Cooldown is how long the breaker stays open before probing again.
	// Default 30s.
	Cooldown time.Duration
	// HalfOpenProbes is how many consecutive successes in half-open state
	// close the breaker again. Default 1.
	HalfOpenProbes int
}

// Breaker is safe for concurrent use.
type Breaker struct {
	opts Options

	mu            sync.Mutex
	state         State
	failures      int
	probes        int
	openedAt      time.Time
	probeInFlight bool
}

// New builds a breaker with the given options.
func New(opts Options) *Breaker {
	if opts.FailureThreshold <= 0 {
		opts.FailureThreshold = 5
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = 30 * time.Second
	}
	if opts.HalfOpenProbes <= 0 {
		opts.HalfOpenProbes = 1
	}
	return &Breaker{opts: opts}
}

// State returns the current state, accounting for an elapsed cooldown.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState(time.Now())
}

// Execute runs fn unless the breaker is open. A rejected execution
// returns ErrOpen without invoking fn.
func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	if err := b.before(); err != nil {
		return nil, err
	}
	result, err := fn()
	b.after(err == nil)
	return result, err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState(time.Now()) {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		// One probe at a time while half-open.
		if b.probeInFlight {
			return ErrOpen
		}
		b.probeInFlight = true
	}
	return nil
}

func (b *Breaker) after(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := b.currentState(time.Now())
	b.probeInFlight = false

	if !success {
		b.failures++
		b.probes = 0
		if state == StateHalfOpen || b.failures >= b.opts.FailureThreshold {
			b.trip()
		}
		return
	}

	b.failures = 0
	if state == StateHalfOpen {
		b.probes++
		if b.probes >= b.opts.HalfOpenProbes {
			b.state = StateClosed
			b.probes = 0
		}
	}
}

func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = time.Now()
	b.probes = 0
}

// currentState must be called with the lock held.
func (b *Breaker) currentState(now time.Time) State {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.opts.Cooldown {
		b.state = StateHalfOpen
	}
	return b.state
}
