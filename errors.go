package ragchat

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates an input failed validation.
	ErrValidation = errors.New("validation error")

	// ErrKeyNotFound indicates a key is absent from a KV store.
	ErrKeyNotFound = errors.New("key not found")

	// ErrNotAuthenticated indicates no credential pair is loaded.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// ServerError is a non-2xx response from the backend. Message carries the
// server-supplied message when the body had one, else a status-coded
// generic.
type ServerError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.StatusCode)
}

// IsCanceled reports whether err is a cancellation. Cancellations are not
// user-visible errors: a superseded fetch is expected behavior, not a
// failure.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
