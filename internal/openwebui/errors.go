package openwebui

import (
	"errors"
	"fmt"
)

// Sentinel errors for upstream calls. All are recoverable at the caller; the
// responder substitutes the fallback reply for any of them.
var (
	// ErrTimeout indicates the upstream did not answer within the configured timeout.
	ErrTimeout = errors.New("openwebui: request timed out")

	// ErrMalformed indicates a 2xx response whose body did not contain a completion.
	ErrMalformed = errors.New("openwebui: malformed completion response")
)

// StatusError is returned for non-2xx upstream responses. It carries the
// HTTP status code and a capped excerpt of the response body.
type StatusError struct {
	Code int
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("openwebui: HTTP %d: %s", e.Code, e.Body)
}
