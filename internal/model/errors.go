package model

import (
	"errors"
	"strings"
)

// Error classes. Services wrap one of these with a human-readable reason,
// callers match them with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrAuthorization  = errors.New("not authorized")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrIntegrity      = errors.New("integrity violation")
)

// ErrInvalidCredentials is returned for every failed authentication,
// whatever the cause.
var ErrInvalidCredentials = &credentialsError{}

type credentialsError struct{}

func (e *credentialsError) Error() string { return "invalid email or password" }

func (e *credentialsError) Unwrap() error { return ErrAuthentication }

// Result reports the outcome of an operation with a human-readable message.
type Result struct {
	Success bool
	Message string
}

// OK returns a successful Result.
func OK(message string) Result {
	return Result{Success: true, Message: message}
}

// Describe converts err into a Result. Errors outside the taxonomy are
// reported with a generic message so store details never reach the user.
func Describe(err error) Result {
	if err == nil {
		return OK("done")
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return Result{Message: ErrInvalidCredentials.Error()}
	case errors.Is(err, ErrAuthentication),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrAuthorization),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict):
		return Result{Message: reason(err)}
	case errors.Is(err, ErrIntegrity):
		return Result{Message: "the operation conflicts with existing data"}
	default:
		return Result{Message: "internal error"}
	}
}

// reason strips wrapping context added by lower layers and keeps the
// outermost "<class>: <reason>" message.
func reason(err error) string {
	msg := err.Error()
	for _, class := range []error{ErrAuthentication, ErrValidation, ErrAuthorization, ErrNotFound, ErrConflict} {
		if idx := strings.Index(msg, class.Error()+": "); idx >= 0 {
			return msg[idx+len(class.Error())+2:]
		}
	}
	return msg
}
