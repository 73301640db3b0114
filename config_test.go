package relaycast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := NewConfig()
	cfg.SubscribeKey = "demo"
	cfg.PublishKey = "demo"
	return cfg
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "https", cfg.Scheme)
	assert.Equal(t, "ps.relaycast.net", cfg.Host)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 10*time.Second, cfg.NonSubscribeTimeout)
	assert.Equal(t, 10, cfg.MaxRedirects)
	assert.NotEmpty(t, cfg.UUID)

	// Each config gets its own identity.
	assert.NotEqual(t, cfg.UUID, NewConfig().UUID)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad scheme", func(c *Config) { c.Scheme = "ftp" }, "scheme"},
		{"missing host", func(c *Config) { c.Host = "" }, "host"},
		{"missing subscribe key", func(c *Config) { c.SubscribeKey = "" }, "subscribe key"},
		{"missing uuid", func(c *Config) { c.UUID = "" }, "uuid"},
		{"zero connect timeout", func(c *Config) { c.ConnectTimeout = 0 }, "connect timeout"},
		{"negative request timeout", func(c *Config) { c.NonSubscribeTimeout = -time.Second }, "request timeout"},
		{"zero redirect cap", func(c *Config) { c.MaxRedirects = 0 }, "redirects"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("RELAYCAST_SCHEME", "http")
	t.Setenv("RELAYCAST_HOST", "localhost:8080")
	t.Setenv("RELAYCAST_SUBSCRIBE_KEY", "sub-env")
	t.Setenv("RELAYCAST_PUBLISH_KEY", "pub-env")
	t.Setenv("RELAYCAST_CONNECT_TIMEOUT", "250ms")
	t.Setenv("RELAYCAST_REQUEST_TIMEOUT", "3s")
	t.Setenv("RELAYCAST_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Scheme)
	assert.Equal(t, "localhost:8080", cfg.Host)
	assert.Equal(t, "sub-env", cfg.SubscribeKey)
	assert.Equal(t, "pub-env", cfg.PublishKey)
	assert.Equal(t, 250*time.Millisecond, cfg.ConnectTimeout)
	assert.Equal(t, 3*time.Second, cfg.NonSubscribeTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)

	// UUID is generated when the environment does not provide one.
	assert.NotEmpty(t, cfg.UUID)
}

func TestConfigOrigin(t *testing.T) {
	cfg := validConfig()
	cfg.Scheme = "http"
	cfg.Host = "localhost:9999"
	assert.Equal(t, "http://localhost:9999", cfg.Origin())
}
