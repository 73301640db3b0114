package relaycast

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/relaycast/relaycast-go/internal/logging"
	"github.com/relaycast/relaycast-go/transport"
)

const (
	sdkName = "RelayCast-Go"

	// Version is the SDK version reported in the User-Agent header.
	Version = "4.0.0"
)

// Observer receives one notification per executed request. The telemetry
// package provides a Prometheus-backed implementation; a nil observer
// costs nothing.
type Observer interface {
	Observe(method, path, outcome string, elapsed time.Duration)
}

// Client is the long-lived context all operations run through. It owns
// the validated configuration and the shared HTTP session, and caches the
// derived User-Agent header. Safe for concurrent use.
type Client struct {
	config   *Config
	exec     *transport.Executor
	log      *logging.Logger
	observer Observer
	platform string
	header   http.Header
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithPlatform sets the platform discriminator appended to the SDK name
// in the User-Agent header, e.g. "-Wasm". Concrete client variants supply
// their own.
func WithPlatform(platform string) Option {
	return func(c *Client) { c.platform = platform }
}

// WithObserver attaches a request observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient validates cfg and builds the client context. Validation runs
// first: an invalid configuration fails here, never at the first request.
// The underlying session is created once and reused for every request
// issued through this client.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	c := &Client{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment})
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	c.log = log

	// Computed once per instance, not per request.
	c.header = http.Header{"User-Agent": []string{c.userAgent()}}

	c.exec = transport.New(transport.Settings{
		BaseURL:        cfg.Origin(),
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.NonSubscribeTimeout,
		MaxRedirects:   cfg.MaxRedirects,
		RateLimit:      cfg.RateLimit,
		Logger:         log,
	})

	log.Debug("client created",
		zap.String("origin", cfg.Origin()),
		zap.String("uuid", cfg.UUID),
		zap.String("user_agent", c.UserAgent()))
	return c, nil
}

func (c *Client) userAgent() string {
	return fmt.Sprintf("%s%s/%s", sdkName, c.platform, Version)
}

// UserAgent returns the cached User-Agent value sent with every request.
func (c *Client) UserAgent() string {
	return c.header.Get("User-Agent")
}

// UUID returns the identity this client presents to the service.
func (c *Client) UUID() string {
	return c.config.UUID
}

// Config returns the validated configuration. Callers must treat it as
// read-only.
func (c *Client) Config() *Config {
	return c.config
}

// Close releases idle connections held by the session. The client must
// not be used afterwards.
func (c *Client) Close() {
	c.exec.Close()
	_ = c.log.Sync()
}
