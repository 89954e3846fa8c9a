package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter bounds login attempts per email within a fixed window, backed
// by Redis. Key format: login_attempts:<email>
//
// The limiter counts attempts, not failures: a correct password after the
// limit is hit still waits out the window. Callers treat limiter errors as
// non-fatal so an unavailable Redis never locks out logins.
type LoginLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewLoginLimiter creates a LoginLimiter allowing max attempts per window.
func NewLoginLimiter(client *redis.Client, max int, window time.Duration) *LoginLimiter {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{client: client, max: int64(max), window: window}
}

// Allow records an attempt for email and reports whether it is within the
// limit. The window starts at the first attempt and is not sliding.
func (l *LoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := l.key(email)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("login limiter: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("login limiter: %w", err)
		}
	}

	return n <= l.max, nil
}

func (l *LoginLimiter) key(email string) string {
	return "login_attempts:" + email
}
