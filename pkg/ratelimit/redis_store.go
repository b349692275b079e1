package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisStore implements Store on a shared Redis counter so multiple service
// instances enforce a single budget per key.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client redis.UniversalClient) (*RedisStore, error) {
	if client == nil {
		return nil, ErrStoreRequired
	}
	return &RedisStore{client: client}, nil
}

// IncrementAndGet atomically increments the counter and starts the window TTL
// on first use. INCR and ExpireNX run in one transaction so a crash between
// them cannot leave a counter without expiry.
func (s *RedisStore) IncrementAndGet(ctx context.Context, key string, incr int, window time.Duration) (int64, time.Duration, error) {
	rkey := redisKeyPrefix + key

	pipe := s.client.TxPipeline()
	incrCmd := pipe.IncrBy(ctx, rkey, int64(incr))
	pipe.ExpireNX(ctx, rkey, window)
	ttlCmd := pipe.PTTL(ctx, rkey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	ttl := ttlCmd.Val()
	if ttl < 0 {
		ttl = window
	}
	return incrCmd.Val(), ttl, nil
}

// Get returns the current counter value and TTL without incrementing.
func (s *RedisStore) Get(ctx context.Context, key string) (int64, time.Duration, error) {
	rkey := redisKeyPrefix + key

	current, err := s.client.Get(ctx, rkey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}

	ttl, err := s.client.PTTL(ctx, rkey).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		ttl = 0
	}
	return current, ttl, nil
}

// Delete removes the given key from the store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKeyPrefix+key).Err()
}
