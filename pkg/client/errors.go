package client

import (
	"errors"
	"fmt"
)

// ErrTransport marks failures where no usable response was received: the
// request could not be sent, the connection failed, or the body could not be
// decoded. An error response with a non-JSON body is both an ErrTransport and
// an *APIError.
var ErrTransport = errors.New("transport error")

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Detail     string
	Method     string
	Path       string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.StatusCode)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// AsAPIError returns the *APIError wrapped in err, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// DetailOr returns the backend detail carried by err, or fallback when err
// carries none.
func DetailOr(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
