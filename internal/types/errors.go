package types

import (
	"errors"
	"fmt"
)

// Error kinds. Callers branch on them with errors.Is.
//
// Validation, configuration and encryption errors are always raised locally,
// before any request exists. Remote kinds classify non-2xx HTTP outcomes at the
// transport boundary.
var (
	// ErrValidation indicates bad channel, event, user id, socket id or size input.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration indicates missing or malformed credentials or master key.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrEncryption indicates an encrypted channel cannot be served as requested.
	ErrEncryption = errors.New("encryption error")

	// ErrBadRequest maps HTTP 400.
	ErrBadRequest = errors.New("bad request")

	// ErrBadAuth maps HTTP 401.
	ErrBadAuth = errors.New("bad authentication")

	// ErrForbidden maps HTTP 403 (disabled app or quota exceeded).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound maps HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrUnexpectedStatus covers every other non-success status.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// FieldError names the input field that failed validation and why.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

// Unwrap makes every FieldError match ErrValidation.
func (e *FieldError) Unwrap() error { return ErrValidation }

// NewFieldError builds a FieldError with a formatted message.
func NewFieldError(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// RemoteError carries a non-success HTTP outcome.
// Kind is one of the remote error kinds above.
type RemoteError struct {
	StatusCode int
	Body       string
	Kind       error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("pusher: %v (HTTP %d): %s", e.Kind, e.StatusCode, e.Body)
}

func (e *RemoteError) Unwrap() error { return e.Kind }
