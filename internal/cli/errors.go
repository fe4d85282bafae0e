package cli

import (
	"errors"

	"github.com/dtroode/vaultkeeper/internal/model"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitAuth      = 3
	exitForbidden = 4
	exitNotFound  = 5
	exitRejected  = 6
)

type usageError struct {
	msg      string
	synopsis string
}

func (e *usageError) Error() string {
	return e.msg
}

func exitCode(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &usage):
		return exitUsage
	case errors.Is(err, model.ErrAuthentication):
		return exitAuth
	case errors.Is(err, model.ErrAuthorization):
		return exitForbidden
	case errors.Is(err, model.ErrNotFound):
		return exitNotFound
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrConflict),
		errors.Is(err, model.ErrIntegrity):
		return exitRejected
	default:
		return exitFailure
	}
}
