package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type videoList struct {
	IDs []string
}

func TestInMemoryCacheManager_GetSet(t *testing.T) {
	cache := NewInMemoryCacheManager[string, videoList]("videos", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "squat")
	require.False(t, ok)

	cache.Set(ctx, "squat", videoList{IDs: []string{"a", "b"}}, DefaultExpiration)

	got, ok := cache.Get(ctx, "squat")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, got.IDs)
	require.Equal(t, 1, cache.Len())
}

func TestInMemoryCacheManager_WrongType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("videos", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("k", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "k")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("n", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()
	cache.Set(ctx, "a", 1, DefaultExpiration)
	cache.Set(ctx, "b", 2, DefaultExpiration)
	cache.Set(ctx, "c", 3, DefaultExpiration)

	cache.Delete(ctx, "a")
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	require.Equal(t, 2, cache.Len())

	cache.Flush(ctx)
	require.Equal(t, 0, cache.Len())
}

func TestInMemoryCacheManager_Expires(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("n", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "a", 1, time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "a")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestReadThroughCache_HitAndMiss(t *testing.T) {
	calls := 0
	rt := NewReadThroughCache[string, int, string](
		NewInMemoryCacheManager[string, int]("n", DefaultExpiration, DefaultCleanupInterval),
		time.Minute,
		func(_ context.Context, in string) (int, error) {
			calls++
			return len(in), nil
		},
	)
	ctx := context.Background()

	v, hit, err := rt.Get(ctx, "k", "abcd")
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, 4, v)

	v, hit, err = rt.Get(ctx, "k", "ignored")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, 4, v)
	require.Equal(t, 1, calls)

	rt.Flush(ctx)
	_, hit, _ = rt.Get(ctx, "k", "xy")
	require.False(t, hit)
	require.Equal(t, 2, calls)
}

func TestReadThroughCache_ErrorsNotCached(t *testing.T) {
	calls := 0
	rt := NewReadThroughCache[string, int, struct{}](
		NewInMemoryCacheManager[string, int]("n", DefaultExpiration, DefaultCleanupInterval),
		time.Minute,
		func(context.Context, struct{}) (int, error) {
			calls++
			return 0, errors.New("down")
		},
	)

	_, _, err := rt.Get(context.Background(), "k", struct{}{})
	require.Error(t, err)
	_, _, err = rt.Get(context.Background(), "k", struct{}{})
	require.Error(t, err)
	require.Equal(t, 2, calls)
}

func TestReadThroughCache_Disabled(t *testing.T) {
	calls := 0
	rt := NewReadThroughCache[string, int, struct{}](nil, 0, func(context.Context, struct{}) (int, error) {
		calls++
		return calls, nil
	})

	v1, _, _ := rt.Get(context.Background(), "k", struct{}{})
	v2, hit, _ := rt.Get(context.Background(), "k", struct{}{})
	require.False(t, hit)
	require.Equal(t, 1, v1)
	require.Equal(t, 2, v2)
	require.NotPanics(t, func() { rt.Flush(context.Background()) })
}
