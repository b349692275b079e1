package ratelimit

import (
	"context"
	"time"
)

// FixedWindow implements a fixed-window rate limiter: each key gets a counter
// that resets when its window expires. Cheap and predictable; requests on a
// window boundary may briefly see up to 2x the limit, which is acceptable for
// abuse throttling.
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
}

// NewFixedWindow creates a fixed-window rate limiter.
func NewFixedWindow(store Store, limit int, window time.Duration) (*FixedWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}
	return &FixedWindow{store: store, limit: limit, window: window}, nil
}

// Allow consumes one slot for the key. Denied requests still advance the
// counter so a flooding client cannot probe for the window edge.
func (fw *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	current, ttl, err := fw.store.IncrementAndGet(ctx, key, 1, fw.window)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = fw.window
	}

	return &Result{
		Allowed:   current <= int64(fw.limit),
		Limit:     fw.limit,
		Remaining: max(0, fw.limit-int(current)),
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

// Status returns the current window state without consuming a slot.
func (fw *FixedWindow) Status(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	current, ttl, err := fw.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = fw.window
	}

	return &Result{
		Allowed:   current < int64(fw.limit),
		Limit:     fw.limit,
		Remaining: max(0, fw.limit-int(current)),
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

// Reset clears the window for the given key.
func (fw *FixedWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return fw.store.Delete(ctx, key)
}
