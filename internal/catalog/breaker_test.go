package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyCache struct {
	err   error
	calls int
}

func (f *flakyCache) Get(context.Context, string, interface{}) (bool, error) {
	f.calls++
	return false, f.err
}

func (f *flakyCache) Set(context.Context, string, interface{}) error {
	f.calls++
	return f.err
}

func (f *flakyCache) InvalidateAll(context.Context) error {
	f.calls++
	return f.err
}

func newTestBreaker(inner Cache) (*breakerCache, *time.Time) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := NewBreakerCache(inner, BreakerConfig{MaxFailures: 3, ResetTimeout: time.Minute, HalfOpenSuccesses: 2}).(*breakerCache)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestBreakerCacheOpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	inner := &flakyCache{err: errors.New("connection refused")}
	b, _ := newTestBreaker(inner)

	var out string
	for i := 0; i < 3; i++ {
		_, err := b.Get(ctx, "k", &out)
		require.Error(t, err)
	}
	assert.Equal(t, BreakerOpen, b.State())

	_, err := b.Get(ctx, "k", &out)
	assert.ErrorIs(t, err, ErrCacheUnavailable)
	assert.ErrorIs(t, b.Set(ctx, "k", "v"), ErrCacheUnavailable)
	assert.Equal(t, 3, inner.calls, "open breaker does not reach the cache")
}

func TestBreakerCacheSuccessResetsFailureCount(t *testing.T) {
	ctx := context.Background()
	inner := &flakyCache{err: errors.New("timeout")}
	b, _ := newTestBreaker(inner)

	require.Error(t, b.Set(ctx, "k", "v"))
	require.Error(t, b.Set(ctx, "k", "v"))
	inner.err = nil
	require.NoError(t, b.Set(ctx, "k", "v"))
	inner.err = errors.New("timeout")
	require.Error(t, b.Set(ctx, "k", "v"))

	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreakerCacheRecovers(t *testing.T) {
	ctx := context.Background()
	inner := &flakyCache{err: errors.New("down")}
	b, now := newTestBreaker(inner)

	for i := 0; i < 3; i++ {
		_ = b.Set(ctx, "k", "v")
	}
	require.Equal(t, BreakerOpen, b.State())

	*now = now.Add(time.Minute)
	inner.err = nil
	require.NoError(t, b.Set(ctx, "k", "v"))
	assert.Equal(t, BreakerHalfOpen, b.State())
	require.NoError(t, b.Set(ctx, "k", "v"))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreakerCacheHalfOpenFailureReopens(t *testing.T) {
	ctx := context.Background()
	inner := &flakyCache{err: errors.New("down")}
	b, now := newTestBreaker(inner)

	for i := 0; i < 3; i++ {
		_ = b.Set(ctx, "k", "v")
	}
	*now = now.Add(time.Minute)

	require.Error(t, b.Set(ctx, "k", "v"))
	assert.Equal(t, BreakerOpen, b.State())
	assert.ErrorIs(t, b.Set(ctx, "k", "v"), ErrCacheUnavailable)
}

func TestBreakerCacheInvalidateAlwaysReachesCache(t *testing.T) {
	ctx := context.Background()
	inner := &flakyCache{err: errors.New("down")}
	b, _ := newTestBreaker(inner)

	for i := 0; i < 3; i++ {
		_ = b.Set(ctx, "k", "v")
	}
	require.Equal(t, BreakerOpen, b.State())

	inner.err = nil
	require.NoError(t, b.InvalidateAll(ctx))
	assert.Equal(t, 4, inner.calls)
}

func TestBreakerStateString(t *testing.T) {
	assert.Equal(t, "closed", BreakerClosed.String())
	assert.Equal(t, "open", BreakerOpen.String())
	assert.Equal(t, "half-open", BreakerHalfOpen.String())
}
