package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore implements Store with in-process counters. Suitable for a
// single instance; use RedisStore when several replicas share one budget.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often expired windows are purged.
// Set to 0 to disable the background janitor.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.cleanupInterval = interval
	}
}

// NewMemoryStore creates an in-memory store with automatic cleanup of
// expired windows.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		windows:         make(map[string]*window),
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cleanupInterval > 0 {
		go s.cleanupLoop()
	}
	return s
}

// IncrementAndGet atomically increments the counter for the key, starting a
// new window when none exists or the previous one expired.
func (s *MemoryStore) IncrementAndGet(ctx context.Context, key string, incr int, windowDur time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	w, exists := s.windows[key]
	if !exists || now.After(w.expiresAt) {
		w = &window{count: int64(incr), expiresAt: now.Add(windowDur)}
		s.windows[key] = w
		return w.count, windowDur, nil
	}

	w.count += int64(incr)
	return w.count, time.Until(w.expiresAt), nil
}

// Get returns the current counter value without incrementing.
func (s *MemoryStore) Get(ctx context.Context, key string) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, exists := s.windows[key]
	if !exists || time.Now().After(w.expiresAt) {
		return 0, 0, nil
	}
	return w.count, time.Until(w.expiresAt), nil
}

// Delete removes the given key from the store.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	return nil
}

// Close stops the janitor goroutine. Safe to call multiple times.
func (s *MemoryStore) Close() {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
	})
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, w := range s.windows {
		if now.After(w.expiresAt) {
			delete(s.windows, key)
		}
	}
}
