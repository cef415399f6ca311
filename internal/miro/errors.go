package miro

import (
	"errors"
	"fmt"
)

// ErrTransport wraps network failures (connection refused, timeouts, ...).
var ErrTransport = errors.New("miro transport error")

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("miro API %s %s failed: HTTP %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// ValidationError is returned before any request is made when an argument is invalid.
type ValidationError struct {
	Field string
	Value string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Msg)
}

// IsAPIError returns true if err is (or wraps) an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsValidationError returns true if err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// IsTransport returns true if err is a network failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
