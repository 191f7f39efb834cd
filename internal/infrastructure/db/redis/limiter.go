package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RegistrationLimiter throttles OTP mails by enforcing a per-email cooldown
// between registration requests. Key format: register:<email>, expiring after
// the cooldown window.
type RegistrationLimiter struct {
	client *redis.Client
}

// NewRegistrationLimiter creates a RegistrationLimiter wrapping the given
// Redis client.
func NewRegistrationLimiter(client *redis.Client) *RegistrationLimiter {
	return &RegistrationLimiter{client: client}
}

// Allow reports whether a registration request for email may proceed, and
// atomically records the attempt when it does. SET NX makes concurrent
// requests for the same email race-safe: exactly one wins the window.
func (l *RegistrationLimiter) Allow(ctx context.Context, email string, window time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(email), "1", window).Result()
	if err != nil {
		return false, fmt.Errorf("registration cooldown check: %w", err)
	}
	return ok, nil
}

func (l *RegistrationLimiter) key(email string) string {
	return "register:" + email
}
