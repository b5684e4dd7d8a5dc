package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by CacheStore.Get when the key is absent or
// expired. Callers treat any other error the same way: compute fresh.
var ErrCacheMiss = errors.New("cache miss")

// CacheStore is the key/value port backing derived views. Values are opaque
// serialized documents; entries expire after their TTL and are never mutated
// in place. Implementations must be safe for concurrent use and must bound
// each operation with a short timeout so a slow cache never blocks the
// request path.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
