package ratelimiter

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLuaLimiter(t *testing.T, fallback BucketConfig) (*RedisLuaLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLuaLimiter(rdb, fallback), mr
}

func TestNewBucketConfigFromPerMinute(t *testing.T) {
	t.Parallel()
	assert.Equal(t, BucketConfig{}, NewBucketConfigFromPerMinute(0))
	cfg := NewBucketConfigFromPerMinute(120)
	assert.Equal(t, int64(120), cfg.Capacity)
	assert.InDelta(t, 2.0, cfg.RefillRate, 1e-9)
}

func TestAllow_NilLimiter_FailOpen(t *testing.T) {
	t.Parallel()
	var limiter *RedisLuaLimiter
	allowed, retryAfter, err := limiter.Allow(context.Background(), "any", 1)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, retryAfter)
	assert.Nil(t, NewRedisLuaLimiter(nil, BucketConfig{}))
	limiter.SetBucketConfig("k", BucketConfig{})
}

func TestAllow_ZeroFallbackIsUnlimited(t *testing.T) {
	t.Parallel()
	limiter, _ := newTestRedisLuaLimiter(t, BucketConfig{})
	for i := 0; i < 5; i++ {
		allowed, _, err := limiter.Allow(context.Background(), "workspace:a", 50)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestAllow_SpendsCostAndReportsRetryAfter(t *testing.T) {
	t.Parallel()
	limiter, mr := newTestRedisLuaLimiter(t, NewBucketConfigFromPerMinute(10))
	now := time.Unix(1_700_000_000, 0)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	allowed, retryAfter, err := limiter.Allow(ctx, "workspace:a", 6)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, retryAfter)

	allowed, retryAfter, err = limiter.Allow(ctx, "workspace:a", 6)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.InDelta(t, float64(12*time.Second), float64(retryAfter), float64(5*time.Millisecond))
	assert.True(t, mr.Exists("quota:workspace:a"))

	// other workspaces have their own bucket
	allowed, _, err = limiter.Allow(ctx, "workspace:b", 6)
	require.NoError(t, err)
	assert.True(t, allowed)

	now = now.Add(13 * time.Second)
	allowed, _, err = limiter.Allow(ctx, "workspace:a", 6)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllow_CostAboveCapacityDenied(t *testing.T) {
	t.Parallel()
	limiter, mr := newTestRedisLuaLimiter(t, NewBucketConfigFromPerMinute(3))
	allowed, retryAfter, err := limiter.Allow(context.Background(), "workspace:a", 4)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, retryAfter)
	assert.False(t, mr.Exists("quota:workspace:a"))
}

func TestAllow_OverrideBucket(t *testing.T) {
	t.Parallel()
	limiter, _ := newTestRedisLuaLimiter(t, NewBucketConfigFromPerMinute(1))
	limiter.SetBucketConfig("workspace:vip", NewBucketConfigFromPerMinute(100))
	allowed, _, err := limiter.Allow(context.Background(), "workspace:vip", 40)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllow_RedisDownFailsOpen(t *testing.T) {
	t.Parallel()
	limiter, mr := newTestRedisLuaLimiter(t, NewBucketConfigFromPerMinute(10))
	mr.Close()
	allowed, _, err := limiter.Allow(context.Background(), "workspace:a", 1)
	assert.Error(t, err)
	assert.True(t, allowed)
}

func TestAllow_ExpiresIdleBuckets(t *testing.T) {
	t.Parallel()
	limiter, mr := newTestRedisLuaLimiter(t, NewBucketConfigFromPerMinute(60))
	_, _, err := limiter.Allow(context.Background(), "workspace:a", 1)
	require.NoError(t, err)
	ttl := mr.TTL("quota:workspace:a")
	assert.Greater(t, ttl, time.Minute)
	assert.LessOrEqual(t, ttl, 2*time.Minute)
}
