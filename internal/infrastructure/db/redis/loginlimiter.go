package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	loginWindow      = time.Minute
	loginMaxAttempts = 10
)

// LoginLimiter throttles login attempts per username with a fixed window
// counter in Redis. Key format: login_attempts:<username>:<window_number>
type LoginLimiter struct {
	client *redis.Client
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{client: client}
}

// Allow reports whether another login attempt for username is permitted
// within the current window.
func (l *LoginLimiter) Allow(ctx context.Context, username string) (bool, error) {
	key := l.key(username, time.Now())

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("login limiter: %w", err)
	}
	if n == 1 {
		// First attempt of the window sets the expiry.
		if err := l.client.Expire(ctx, key, loginWindow).Err(); err != nil {
			return false, fmt.Errorf("login limiter expire: %w", err)
		}
	}

	return n <= loginMaxAttempts, nil
}

func (l *LoginLimiter) key(username string, now time.Time) string {
	window := now.Unix() / int64(loginWindow.Seconds())
	return fmt.Sprintf("login_attempts:%s:%d", username, window)
}
