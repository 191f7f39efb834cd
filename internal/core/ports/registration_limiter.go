package ports

import (
	"context"
	"time"
)

// RegistrationLimiter throttles repeated registration requests for the same
// email address within a cooldown window.
type RegistrationLimiter interface {
	// Allow reports whether a registration request for email may proceed and
	// records the attempt when it does.
	Allow(ctx context.Context, email string, window time.Duration) (bool, error)
}
