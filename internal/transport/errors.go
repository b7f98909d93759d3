package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"unicode/utf8"
)

// HttpStatusError is returned when the server answered with a non-2xx status.
type HttpStatusError struct {
	StatusCode int
	Status     string
	// Body is the start of the response body, for diagnostics only.
	Body string
}

func (e *HttpStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http status: %s", e.Status)
	}
	return fmt.Sprintf("http status: %s: %s", e.Status, e.Body)
}

// ConnectionError is returned when the server could not be reached at all
// (dns lookup, refused or reset connections).
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when the request did not complete within the
// client timeout or the context deadline.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// UnclassifiedTransportError is any other failure of the request.
type UnclassifiedTransportError struct {
	Err error
}

func (e *UnclassifiedTransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *UnclassifiedTransportError) Unwrap() error {
	return e.Err
}

const maxErrorBody = 512

// truncateBody cuts body to at most maxErrorBody bytes without splitting a rune.
func truncateBody(body []byte) string {
	if len(body) <= maxErrorBody {
		return string(body)
	}
	end := maxErrorBody
	for end > 0 && !utf8.RuneStart(body[end]) {
		end--
	}
	return string(body[:end]) + "..."
}

func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Err: err}
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) ||
		errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return &ConnectionError{Err: err}
	}

	return &UnclassifiedTransportError{Err: err}
}

// IsTransportError reports whether err is one of the classified transport failures.
func IsTransportError(err error) bool {
	var statusErr *HttpStatusError
	var connErr *ConnectionError
	var timeoutErr *TimeoutError
	var otherErr *UnclassifiedTransportError
	return errors.As(err, &statusErr) ||
		errors.As(err, &connErr) ||
		errors.As(err, &timeoutErr) ||
		errors.As(err, &otherErr)
}
