package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fail() (interface{}, error) { return nil, errors.New("failed") }
func ok() (interface{}, error)   { return "ok", nil }

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		outcomes  []bool // true = success, false = failure
		wantState State
	}{
		{
			name:      "stays closed on successes",
			opts:      Options{FailureThreshold: 3, Cooldown: time.Minute},
			outcomes:  []bool{true, true, true},
			wantState: StateClosed,
		},
		{
			name:      "opens at the failure threshold",
			opts:      Options{FailureThreshold: 3, Cooldown: time.Minute},
			outcomes:  []bool{false, false, false},
			wantState: StateOpen,
		},
		{
			name:      "success resets the failure streak",
			opts:      Options{FailureThreshold: 3, Cooldown: time.Minute},
			outcomes:  []bool{false, false, true, false, false},
			wantState: StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.opts)
			for _, success := range tt.outcomes {
				if success {
					b.Execute(ok)
				} else {
					b.Execute(fail)
				}
			}
			assert.Equal(t, tt.wantState, b.State())
		})
	}
}

func TestBreakerRejectsWhileOpen(t *testing.T) {
	b := New(Options{FailureThreshold: 1, Cooldown: time.Hour})
	_, err := b.Execute(fail)
	require.Error(t, err)
	require.Equal(t, StateOpen, b.State())

	invoked := false
	_, err = b.Execute(func() (interface{}, error) {
		invoked = true
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, invoked)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	b := New(Options{FailureThreshold: 1, Cooldown: 10 * time.Millisecond})
	b.Execute(fail)
	require.Equal(t, StateOpen, b.State())

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StateHalfOpen, b.State())

	result, err := b.Execute(ok)
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	b := New(Options{FailureThreshold: 1, Cooldown: 10 * time.Millisecond})
	b.Execute(fail)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StateHalfOpen, b.State())

	b.Execute(fail)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerDefaults(t *testing.T) {
	b := New(Options{})
	assert.Equal(t, 5, b.opts.FailureThreshold)
	assert.Equal(t, 30*time.Second, b.opts.Cooldown)
	assert.Equal(t, 1, b.opts.HalfOpenProbes)
}
