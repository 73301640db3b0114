package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		log, err := New(Config{Level: "info"})
		require.NoError(t, err)
		assert.NotNil(t, log.Logger)
	})

	t.Run("development", func(t *testing.T) {
		log, err := New(Config{Level: "debug", Development: true})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(-1)) // debug level
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := New(Config{Level: "chatty"})
		assert.Error(t, err)
	})
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	// Must be safe to use without any configuration.
	log.Debug("dropped")
	log.Error("dropped")
}
