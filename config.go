package relaycast

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything a client context needs: where the service
// lives, the keyset, the client identity, and the timeout policy. It is
// validated once by NewClient and must not change afterwards.
type Config struct {
	Scheme string `envconfig:"RELAYCAST_SCHEME" default:"https"`
	Host   string `envconfig:"RELAYCAST_HOST" default:"ps.relaycast.net"`

	SubscribeKey string `envconfig:"RELAYCAST_SUBSCRIBE_KEY"`
	PublishKey   string `envconfig:"RELAYCAST_PUBLISH_KEY"`

	// UUID identifies this client instance to the service. Required;
	// NewConfig and LoadConfig generate one when unset.
	UUID string `envconfig:"RELAYCAST_UUID"`

	// ConnectTimeout bounds connection establishment; NonSubscribeTimeout
	// bounds waiting for the complete response on regular operations.
	ConnectTimeout      time.Duration `envconfig:"RELAYCAST_CONNECT_TIMEOUT" default:"5s"`
	NonSubscribeTimeout time.Duration `envconfig:"RELAYCAST_REQUEST_TIMEOUT" default:"10s"`

	// MaxRedirects caps the redirect chain per request.
	MaxRedirects int `envconfig:"RELAYCAST_MAX_REDIRECTS" default:"10"`

	// RateLimit is an optional client-side requests-per-second cap.
	// Zero disables it.
	RateLimit float64 `envconfig:"RELAYCAST_RATE_LIMIT" default:"0"`

	LogLevel       string `envconfig:"RELAYCAST_LOG_LEVEL" default:"info"`
	LogDevelopment bool   `envconfig:"RELAYCAST_LOG_DEV" default:"false"`
}

// NewConfig returns a Config with service defaults and a freshly
// generated UUID. Keys must be filled in by the caller.
func NewConfig() *Config {
	return &Config{
		Scheme:              "https",
		Host:                "ps.relaycast.net",
		UUID:                uuid.NewString(),
		ConnectTimeout:      5 * time.Second,
		NonSubscribeTimeout: 10 * time.Second,
		MaxRedirects:        10,
		LogLevel:            "info",
	}
}

// LoadConfig builds a Config from RELAYCAST_* environment variables,
// generating a UUID when none is set.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.UUID == "" {
		cfg.UUID = uuid.NewString()
	}
	return &cfg, nil
}

// Validate reports the first problem that would make the configuration
// unusable. NewClient calls it before anything else, so a bad
// configuration fails construction rather than the first request.
func (c *Config) Validate() error {
	if c.Scheme != "http" && c.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", c.Scheme)
	}
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.SubscribeKey == "" {
		return fmt.Errorf("subscribe key is required")
	}
	if c.UUID == "" {
		return fmt.Errorf("uuid is required")
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive, got %s", c.ConnectTimeout)
	}
	if c.NonSubscribeTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.NonSubscribeTimeout)
	}
	if c.MaxRedirects <= 0 {
		return fmt.Errorf("max redirects must be positive, got %d", c.MaxRedirects)
	}
	return nil
}

// Origin returns the scheme+host request paths are resolved against.
func (c *Config) Origin() string {
	return c.Scheme + "://" + c.Host
}
