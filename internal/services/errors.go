package services

import "errors"

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrStorageFailure      = errors.New("storage failure")
	// ErrInvariantViolation means the service computed a state it must never
	// reach. It is a bug, not a business outcome.
	ErrInvariantViolation = errors.New("internal invariant violation")
	ErrLockTimeout        = errors.New("timed out waiting for user lock")
)

// ErrorCode maps an error returned by PointService to its stable code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return "INVALID_ARGUMENT"
	case errors.Is(err, ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	case errors.Is(err, ErrStorageFailure):
		return "STORAGE_FAILURE"
	case errors.Is(err, ErrInvariantViolation):
		return "INTERNAL_INVARIANT_VIOLATION"
	case errors.Is(err, ErrLockTimeout):
		return "LOCK_TIMEOUT"
	default:
		return "INTERNAL_ERROR"
	}
}
