package points

import (
	"errors"
)

// Error kinds. Every error returned by Service matches at most one of them
// with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUserNotFound    = errors.New("user not found")
	ErrLockTimeout     = errors.New("user is busy, lock wait timed out")
	ErrStorage         = errors.New("storage failure")
)

// argumentError is a rejected input. Its text is shown to callers as is.
type argumentError string

func (e argumentError) Error() string { return string(e) }

func (e argumentError) Is(target error) bool { return target == ErrInvalidArgument }

const (
	ErrMissingUserID      = argumentError("user id must be provided")
	ErrNegativeCharge     = argumentError("amount must be a positive number")
	ErrPositiveDeduct     = argumentError("amount must be a negative number")
	ErrInsufficientPoints = argumentError("cannot deduct more than current balance")
	ErrBalanceOverflow    = argumentError("amount overflows balance")
)

// Code names the kind of err for metrics labels and API responses.
func Code(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, ErrStorage):
		return "storage_error"
	default:
		return "internal"
	}
}
