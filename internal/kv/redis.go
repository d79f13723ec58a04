package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the cache tier with Redis for deployments where several
// API instances share one cache.
type RedisStore struct {
	client   *redis.Client
	maxBytes int64
}

// NewRedisStore connects and pings the server before returning.
func NewRedisStore(addr string, maxBytes int64) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("kv: connect redis %s: %w", addr, err)
	}
	return &RedisStore{client: client, maxBytes: maxBytes}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, val []byte) error {
	if s.maxBytes > 0 && int64(len(val)) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes, ceiling %d", ErrCapacity, len(val), s.maxBytes)
	}
	return s.client.Set(ctx, key, val, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error { return s.client.Close() }
