package ratelimit

import (
	"context"
	"time"
)

// Result contains the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the request is allowed.
	Allowed bool

	// Limit is the maximum number of requests allowed in the window.
	Limit int

	// Remaining is the number of requests remaining in the current window.
	Remaining int

	// ResetAt is the time when the current window expires.
	ResetAt time.Time
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 if the current request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Limiter defines the interface for rate limiting implementations.
type Limiter interface {
	// Allow checks if a single request is allowed for the given key and
	// consumes one slot if so.
	Allow(ctx context.Context, key string) (*Result, error)

	// Status returns the current state without consuming a slot.
	Status(ctx context.Context, key string) (*Result, error)

	// Reset clears the rate limit state for the given key.
	Reset(ctx context.Context, key string) error
}

// Store defines the counter storage backend for fixed-window limiting.
type Store interface {
	// IncrementAndGet atomically increments the counter for the key and
	// returns the new value with the remaining window TTL. A fresh counter
	// starts a new window of the given duration.
	IncrementAndGet(ctx context.Context, key string, incr int, window time.Duration) (current int64, ttl time.Duration, err error)

	// Get returns the current counter value and TTL without incrementing.
	Get(ctx context.Context, key string) (current int64, ttl time.Duration, err error)

	// Delete removes the given key from the store.
	Delete(ctx context.Context, key string) error
}

// Config carries rate limiter settings read from the environment.
// RedisURL is optional; when set the limiter uses a shared Redis counter so
// multiple instances enforce one budget.
type Config struct {
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	Max      int           `env:"RATE_LIMIT_MAX" envDefault:"10"`
	RedisURL string        `env:"REDIS_URL"`
}
