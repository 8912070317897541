package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// StatusError is a non-2xx response from a remote API. The body is retained
// so callers can decode structured conflict responses.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// IsConflict reports whether err is a 409 response. Conflicts are expected,
// terminal outcomes and are never retried.
func IsConflict(err error) bool {
	return IsStatus(err, http.StatusConflict)
}

// ConflictBody returns the response body of a 409 error, or nil when err is
// not a conflict.
func ConflictBody(err error) []byte {
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusConflict {
		return se.Body
	}
	return nil
}

// IsTransient reports whether err is worth retrying: a network error, a
// timeout, a 429 or a 5xx. Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
