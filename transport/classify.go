package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
)

// Classify maps a transport-level error onto the taxonomy. Classification
// is total: every error yields exactly one kind, falling back to
// KindUnknown when nothing more specific matches.
//
// Timeouts are tested before connection failures: a dial that exceeds the
// connect timeout satisfies both, and it must surface as a timeout.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &Error{Kind: KindTimeout, Message: err.Error()}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: err.Error()}
	}

	// net/http reports an exceeded redirect cap only through the error
	// text produced by the redirect policy.
	if msg := err.Error(); strings.Contains(msg, "stopped after") && strings.Contains(msg, "redirects") {
		return &Error{Kind: KindTooManyRedirects, Message: msg}
	}

	var operr *net.OpError
	if errors.As(err, &operr) {
		return &Error{Kind: KindConnection, Message: err.Error()}
	}
	var dnserr *net.DNSError
	if errors.As(err, &dnserr) {
		return &Error{Kind: KindConnection, Message: err.Error()}
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || strings.Contains(err.Error(), "malformed HTTP") {
		return &Error{Kind: KindProtocol, Message: err.Error()}
	}

	return &Error{Kind: KindUnknown, Message: err.Error()}
}
