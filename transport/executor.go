package transport

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/relaycast/relaycast-go/internal/logging"
)

// Settings configures an Executor. BaseURL is the scheme+host the client
// context validated; paths from request descriptors are resolved against
// it at execution time.
type Settings struct {
	BaseURL string
	// ConnectTimeout bounds reaching a connected state.
	ConnectTimeout time.Duration
	// ReadTimeout bounds waiting for the complete response.
	ReadTimeout time.Duration
	// MaxRedirects caps the redirect chain before the call fails with
	// KindTooManyRedirects.
	MaxRedirects int
	// RateLimit is an optional client-side requests-per-second cap.
	// Zero means unlimited.
	RateLimit float64
	Logger    *logging.Logger
}

// Executor performs HTTP calls for one client context. It owns the shared
// session (one resty client over one pooled http.Transport) and is safe
// for concurrent use by any number of simultaneous executions.
type Executor struct {
	rest    *resty.Client
	limiter *rate.Limiter
	log     *logging.Logger
}

// New builds the executor and its session. The session is created once
// per client context and reused for every request issued through it.
func New(s Settings) *Executor {
	dialer := &net.Dialer{Timeout: s.ConnectTimeout}
	tr := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: s.ConnectTimeout,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	rest := resty.New().
		SetBaseURL(s.BaseURL).
		SetTimeout(s.ReadTimeout).
		SetTransport(tr).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(s.MaxRedirects))

	limiter := rate.NewLimiter(rate.Inf, 0)
	if s.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.RateLimit), int(s.RateLimit)+1)
	}

	log := s.Logger
	if log == nil {
		log = logging.NewNop()
	}

	return &Executor{rest: rest, limiter: limiter, log: log}
}

// BaseURL returns the scheme+host this executor resolves paths against.
func (e *Executor) BaseURL() string {
	return e.rest.BaseURL
}

// Close releases idle connections held by the session.
func (e *Executor) Close() {
	e.rest.GetClient().CloseIdleConnections()
}

// Execute performs one HTTP call described by req and returns the decoded
// JSON payload, or a classified *Error. Exactly one of the two is non-nil.
// It never retries: every failure is classified once and surfaced.
func (e *Executor) Execute(ctx context.Context, req *Request, headers http.Header) (interface{}, *Error) {
	if err := req.Validate(); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: err.Error()}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, Classify(err)
	}

	r := e.rest.R().
		SetContext(ctx).
		SetQueryParams(req.Params).
		SetHeaderMultiValues(headers)
	if bodyBearing(req.Method) {
		r.SetBody(req.Body)
		e.log.Debug("request",
			zap.String("method", req.Method),
			zap.String("url", e.rest.BaseURL+req.Path),
			zap.Any("params", req.Params),
			zap.ByteString("body", req.Body))
	} else {
		e.log.Debug("request",
			zap.String("method", req.Method),
			zap.String("url", e.rest.BaseURL+req.Path),
			zap.Any("params", req.Params))
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		return nil, Classify(err)
	}

	// Only the canonical OK code is success. Other 2xx codes are rejected
	// like any other status; the service never emits them for accepted
	// operations.
	if resp.StatusCode() != http.StatusOK {
		return nil, statusError(resp.StatusCode(), resp.String())
	}

	var payload interface{}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "decoding response body: " + err.Error()}
	}
	return payload, nil
}
