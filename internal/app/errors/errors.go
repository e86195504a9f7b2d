package errors

import (
	"fmt"
)

// Common error types
var (
	// Configuration errors
	ErrMissingAPIKey   = New("API key is required")
	ErrInvalidAPIKey   = New("invalid API key format")
	ErrInvalidConfig   = New("invalid configuration")
	ErrUnknownProvider = New("unknown provider")

	// Pipeline errors
	ErrEmptyInput    = New("input is empty")
	ErrEmptyResponse = New("empty response from provider")
	ErrRunLocked     = New("another run holds the lock")

	// File errors
	ErrDirUnreadable   = New("directory is not readable")
	ErrFileReadFailed  = New("file read failed")
	ErrFileWriteFailed = New("file write failed")

	// Ledger errors
	ErrDatabaseConnection = New("database connection failed")
	ErrInsertFailed       = New("insert failed")
	ErrQueryFailed        = New("query failed")

	// External tool and network errors
	ErrToolFailed    = New("external tool failed")
	ErrRequestFailed = New("request failed")
)

// Error carries a message and an optional cause.
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on message so sentinels compare equal to wrapped copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// MissingKey names the environment variable that must be set.
func MissingKey(envVar string) error {
	return Wrapf(ErrMissingAPIKey, "%s is not set", envVar)
}

// InvalidKey names the environment variable whose value is malformed.
func InvalidKey(envVar string, reason string) error {
	return Wrapf(ErrInvalidAPIKey, "%s: %s", envVar, reason)
}

// UnknownProvider reports an unsupported provider name for a capability.
func UnknownProvider(capability string, name string) error {
	return Wrapf(ErrUnknownProvider, "%s provider %q", capability, name)
}
