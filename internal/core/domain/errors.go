package domain

import "errors"

// Sentinel errors for the account workflows. Adapters wrap lower-level causes
// with %w so callers can match with errors.Is; the API layer maps each value
// to exactly one HTTP status.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUserExists        = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidOTP        = errors.New("invalid OTP")
	ErrEmailMismatch     = errors.New("invalid email")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTooManyRequests   = errors.New("registration requested too recently")
	ErrStoreUnavailable  = errors.New("database connection error")
)
