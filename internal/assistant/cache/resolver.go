// internal/assistant/cache/resolver.go

// Package cache implements the tiered cache resolver: several historically
// valid key formats may hold the same logical dataset, and they are probed
// in a fixed priority order. First non-empty hit wins; everything else is a
// miss that falls through to the live API.
package cache

import (
	"context"

	"sales-assistant/internal/common/logger"
)

// Store is the read-only key/value view of the cache.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
}

// Lookup fetches and shapes one candidate key. A nil or empty result is a
// miss.
type Lookup[T any] func(ctx context.Context, key string) []T

// FirstNonEmpty probes candidate keys strictly in the given order and
// returns the first non-empty item list. An empty list is skipped, not
// treated as a hit; no merging happens across keys. The key order encodes a
// preference for the most complete, most recently written format and must
// be preserved exactly as configured.
func FirstNonEmpty[T any](ctx context.Context, keys []string, lookup Lookup[T]) ([]T, bool) {
	for _, key := range keys {
		if items := lookup(ctx, key); len(items) > 0 {
			return items, true
		}
	}
	return nil, false
}

// Resolver binds FirstNonEmpty to a cache store and a payload shaper for
// one dataset.
type Resolver[T any] struct {
	store  Store
	shape  func(raw []byte) []T
	logger logger.Logger
}

func NewResolver[T any](store Store, shape func(raw []byte) []T, log logger.Logger) *Resolver[T] {
	return &Resolver[T]{
		store:  store,
		shape:  shape,
		logger: log,
	}
}

// Resolve probes the candidate keys in order. Store errors (missing key,
// unreachable store) and malformed payloads are misses, never failures:
// the caller falls through to a live fetch.
func (r *Resolver[T]) Resolve(ctx context.Context, keys []string) ([]T, bool) {
	items, ok := FirstNonEmpty(ctx, keys, func(ctx context.Context, key string) []T {
		val, err := r.store.Get(ctx, key)
		if err != nil {
			return nil
		}
		shaped := r.shape([]byte(val))
		r.logger.Debug("cache probe", map[string]interface{}{
			"key":   key,
			"items": len(shaped),
		})
		return shaped
	})

	if ok {
		r.logger.Info("cache hit", map[string]interface{}{
			"items": len(items),
		})
	}
	return items, ok
}
