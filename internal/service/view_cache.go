package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pennyworth/pennyworth-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Freshness windows per view kind.
const (
	TTLDashboard    = 900 * time.Second
	TTLTrends       = 3600 * time.Second
	TTLCategories   = 1800 * time.Second
	TTLTransactions = 300 * time.Second
	TTLCategoryList = 3600 * time.Second
)

// CategoryListKey caches the static category labels. It is global, not
// user-scoped, and namespaced so it can never collide with the per-user
// categories:<id>:<period> keys.
const CategoryListKey = "categories:all"

// DashboardKey returns the cache key for a user's dashboard view.
func DashboardKey(userID uuid.UUID) string {
	return fmt.Sprintf("dashboard:%s", userID)
}

// TrendsKey returns the cache key for a user's trend series for a year.
func TrendsKey(userID uuid.UUID, year int) string {
	return fmt.Sprintf("trends:%s:%d", userID, year)
}

// CategoriesKey returns the cache key for a user's category breakdown.
func CategoriesKey(userID uuid.UUID, period domain.Period) string {
	return fmt.Sprintf("categories:%s:%s", userID, period)
}

// TransactionsKey returns the cache key for one page of a user's transaction
// list. Every list parameter participates so distinct queries never collide.
func TransactionsKey(userID uuid.UUID, page, limit int32, search, category string) string {
	return fmt.Sprintf("transactions:%s:%d:%d:%s:%s", userID, page, limit, search, category)
}

// ViewCache mediates derived-view requests through the cache store. It owns
// key construction, the per-view TTL policy, and invalidation. The store is
// injected; a nil store disables caching and every request computes fresh.
//
// Instead of wildcard deletion (which plain GET/SET/DEL stores cannot do),
// the cache keeps a registry of live keys per user, updated on every store,
// so invalidation is an exact enumerate-and-delete. The registry is
// process-local; entries written by other processes still age out through
// their TTL.
type ViewCache struct {
	store domain.CacheStore

	mu         sync.Mutex
	keysByUser map[uuid.UUID]map[string]struct{}
}

// NewViewCache creates a ViewCache over the given store. store may be nil.
func NewViewCache(store domain.CacheStore) *ViewCache {
	return &ViewCache{
		store:      store,
		keysByUser: make(map[uuid.UUID]map[string]struct{}),
	}
}

// Enabled reports whether a cache store is configured.
func (vc *ViewCache) Enabled() bool {
	return vc.store != nil
}

// InvalidateUser removes every cached view registered for the user. It is
// best-effort: failures are logged, never propagated, and never retried —
// TTLs bound any residual staleness.
func (vc *ViewCache) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	if vc.store == nil {
		return
	}

	vc.mu.Lock()
	keys := make([]string, 0, len(vc.keysByUser[userID]))
	for key := range vc.keysByUser[userID] {
		keys = append(keys, key)
	}
	delete(vc.keysByUser, userID)
	vc.mu.Unlock()

	if len(keys) == 0 {
		return
	}
	if err := vc.store.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Int("keys", len(keys)).Msg("Cache invalidation failed")
	}
}

func (vc *ViewCache) register(userID uuid.UUID, key string) {
	if userID == uuid.Nil {
		return
	}
	vc.mu.Lock()
	defer vc.mu.Unlock()
	keys, ok := vc.keysByUser[userID]
	if !ok {
		keys = make(map[string]struct{})
		vc.keysByUser[userID] = keys
	}
	keys[key] = struct{}{}
}

// FetchView runs the cache-aside protocol for one view: look the key up, and
// on a hit return the deserialized document; on a miss (or any cache failure,
// which degrades to a miss) invoke compute, store the result with the view's
// TTL, and return it. Caching is a performance optimization, never a
// correctness dependency: every cache error path still yields a freshly
// computed value. Two concurrent misses on one key may both compute and both
// store; the results are identical for a given data snapshot, so last write
// wins harmlessly.
//
// userID scopes the key in the invalidation registry; pass uuid.Nil for
// global keys.
func FetchView[T any](ctx context.Context, vc *ViewCache, userID uuid.UUID, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	if vc.store == nil {
		return compute(ctx)
	}

	data, err := vc.store.Get(ctx, key)
	if err == nil {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		log.Warn().Str("key", key).Msg("Discarding corrupt cache entry")
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("Cache get failed, computing fresh")
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	data, err = json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to serialize view for caching")
		return value, nil
	}
	if err := vc.store.Set(ctx, key, data, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache set failed")
		return value, nil
	}
	vc.register(userID, key)

	return value, nil
}
