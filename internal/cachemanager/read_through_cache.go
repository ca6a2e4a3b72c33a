package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache serves values from a cache and falls back to fn on a
// miss. Errors are never cached.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache CacheManager[K, V]
	fn    func(ctx context.Context, input I) (V, error)
	ttl   time.Duration
}

// NewReadThroughCache wraps fn. A nil cache or non-positive ttl disables
// caching and every Get calls fn.
func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	ttl time.Duration,
	fn func(ctx context.Context, input I) (V, error),
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{cache: cache, fn: fn, ttl: ttl}
}

// Get returns the value for key, loading it with input on a miss.
// hit reports whether the value came from the cache.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I) (value V, hit bool, err error) {
	if r.cache == nil || r.ttl <= 0 {
		value, err = r.fn(ctx, input)
		return value, false, err
	}

	if v, ok := r.cache.Get(ctx, key); ok {
		return v, true, nil
	}

	value, err = r.fn(ctx, input)
	if err != nil {
		return value, false, err
	}
	r.cache.Set(ctx, key, value, r.ttl)
	return value, false, nil
}

// Flush clears the underlying cache, if any.
func (r *ReadThroughCache[K, V, I]) Flush(ctx context.Context) {
	if r.cache != nil {
		r.cache.Flush(ctx)
	}
}
