package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	ErrUsage             = errors.New("usage error")
	ErrValidation        = errors.New("validation error")
	ErrMissingCredential = errors.New("missing credential")
	ErrCollaborator      = errors.New("collaborator invocation failed")
	ErrRemoteAPI         = errors.New("remote api error")
	ErrMissingField      = errors.New("missing field")
	ErrAborted           = errors.New("aborted")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// AppError is a structured error with a process exit code and optional fields.
type AppError struct {
	Err      error
	Message  string
	ExitCode int
	Fields   map[string]string
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Usage creates a wrong-argument-count error.
func Usage(format string, args ...interface{}) *AppError {
	return newError(ErrUsage, format, args...)
}

// Validation creates an invalid-input error.
func Validation(format string, args ...interface{}) *AppError {
	return newError(ErrValidation, format, args...)
}

// MissingCredential creates an error for an absent token or project id.
func MissingCredential(format string, args ...interface{}) *AppError {
	return newError(ErrMissingCredential, format, args...)
}

// Collaborator creates an error for an executable that could not be spawned.
func Collaborator(format string, args ...interface{}) *AppError {
	return newError(ErrCollaborator, format, args...)
}

// RemoteAPI creates an error for a failed or malformed remote API response.
func RemoteAPI(format string, args ...interface{}) *AppError {
	return newError(ErrRemoteAPI, format, args...)
}

// MissingField creates an error naming a field absent from a remote object.
func MissingField(field, format string, args ...interface{}) *AppError {
	e := newError(ErrMissingField, format, args...)
	e.Fields = map[string]string{"field": field}
	return e
}

// Aborted creates an error for an operation the user declined or interrupted.
func Aborted(format string, args ...interface{}) *AppError {
	return newError(ErrAborted, format, args...)
}

func newError(sentinel error, format string, args ...interface{}) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  fmt.Sprintf(format, args...),
		ExitCode: 1,
	}
}

// ExitCode extracts the process exit status from an error, defaulting to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.ExitCode != 0 {
		return appErr.ExitCode
	}
	return 1
}

// IsUserFacing reports whether the error message is meant to be shown as-is,
// without the "Error: " prefix used for runtime failures.
func IsUserFacing(err error) bool {
	return errors.Is(err, ErrUsage) || errors.Is(err, ErrValidation) || errors.Is(err, ErrAborted)
}
