package rediscache

import (
	"context"
	"errors"
	"time"

	"github.com/pennyworth/pennyworth-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

// OpTimeout bounds every cache operation so a slow or unreachable Redis
// degrades to a cache miss instead of blocking the request path.
const OpTimeout = 500 * time.Millisecond

// Store implements domain.CacheStore backed by Redis.
type Store struct {
	client *redis.Client
}

// NewStore creates a Store over an existing Redis client
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get retrieves a value. Absent or expired keys return domain.ErrCacheMiss.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, OpTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

// Set stores a value with the given TTL.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, OpTimeout)
	defer cancel()

	return s.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes the given keys. Deleting absent keys is not an error.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, OpTimeout)
	defer cancel()

	return s.client.Del(ctx, keys...).Err()
}

// Ping verifies connectivity at startup.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, OpTimeout)
	defer cancel()

	return s.client.Ping(ctx).Err()
}
