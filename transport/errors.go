package transport

import "fmt"

// Kind identifies the category of a failed execution. The set is closed:
// every failure maps to exactly one kind, so callers can branch on Kind
// without matching on message text.
type Kind int

const (
	// KindConnection: the underlying connection could not be established.
	KindConnection Kind = iota
	// KindProtocol: the response was malformed at the HTTP protocol layer.
	KindProtocol
	// KindTimeout: no complete response within the configured connect or
	// read timeout.
	KindTimeout
	// KindTooManyRedirects: the redirect chain exceeded the configured cap.
	KindTooManyRedirects
	// KindServer: a response arrived with status >= 500.
	KindServer
	// KindClient: a response arrived with a non-OK status below 500.
	KindClient
	// KindUnknown: any other failure, including a 200 body that fails to
	// decode as JSON.
	KindUnknown
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection-error"
	case KindProtocol:
		return "http-protocol-error"
	case KindTimeout:
		return "timeout"
	case KindTooManyRedirects:
		return "too-many-redirects"
	case KindServer:
		return "server-error"
	case KindClient:
		return "client-error"
	default:
		return "unknown-error"
	}
}

// noBody is the message placeholder when a non-OK response carried no body.
const noBody = "N/A"

// Error is the single failure type surfaced by the executor. StatusCode is
// set only for KindServer and KindClient.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// statusError builds the Error for a received non-OK response. Responses
// in the 5xx range are server errors, everything else a client error; the
// body text becomes the message, or "N/A" when absent.
func statusError(code int, body string) *Error {
	kind := KindClient
	if code >= 500 {
		kind = KindServer
	}
	if body == "" {
		body = noBody
	}
	return &Error{Kind: kind, Message: body, StatusCode: code}
}
