package transport

import (
	"fmt"
	"net/http"
)

// Request describes one logical call against the service: method, relative
// path, query parameters and an optional body. Builders own the path and
// parameter semantics; the executor only requires the descriptor to be
// well-formed.
//
// A Request is a transient value. It is built by an operation builder,
// executed once, and discarded.
type Request struct {
	Method string
	Path   string
	Params map[string]string
	Body   []byte
}

// bodyBearing reports whether the method carries a request body.
func bodyBearing(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// Validate checks that the descriptor is well-formed: a known method, a
// relative path, and a body present iff the method is body-bearing.
func (r *Request) Validate() error {
	switch r.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return fmt.Errorf("unsupported method %q", r.Method)
	}
	if r.Path == "" || r.Path[0] != '/' {
		return fmt.Errorf("path %q must be relative to the service root", r.Path)
	}
	if bodyBearing(r.Method) && len(r.Body) == 0 {
		return fmt.Errorf("%s request requires a body", r.Method)
	}
	if !bodyBearing(r.Method) && len(r.Body) != 0 {
		return fmt.Errorf("%s request must not carry a body", r.Method)
	}
	return nil
}
