// Package ratelimiter meters resume throughput per workspace with a Redis token bucket.
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether key may spend cost units now.
type Limiter interface {
	Allow(ctx context.Context, key string, cost int64) (allowed bool, retryAfter time.Duration, err error)
}

// BucketConfig sizes one token bucket. RefillRate is tokens per second.
type BucketConfig struct {
	Capacity   int64
	RefillRate float64
}

func (c BucketConfig) unlimited() bool { return c.Capacity <= 0 || c.RefillRate <= 0 }

// NewBucketConfigFromPerMinute returns a bucket that refills perMinute tokens every minute.
func NewBucketConfigFromPerMinute(perMinute int) BucketConfig {
	if perMinute <= 0 {
		return BucketConfig{}
	}
	return BucketConfig{
		Capacity:   int64(perMinute),
		RefillRate: float64(perMinute) / 60.0,
	}
}

const keyPrefix = "quota:"

// quotaScript refills the bucket in KEYS[1] for the time elapsed since the
// last call, then tries to take ARGV[4] tokens. Times are unix milliseconds.
// It returns {1, 0} on success or {0, wait_ms}.
var quotaScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local per_ms = tonumber(ARGV[2]) / 1000
local now_ms = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1]) or capacity
local ts = tonumber(state[2]) or now_ms
if now_ms > ts then
  tokens = math.min(capacity, tokens + (now_ms - ts) * per_ms)
  ts = now_ms
end

local ok, wait_ms = 0, 0
if tokens >= cost then
  tokens = tokens - cost
  ok = 1
else
  wait_ms = math.ceil((cost - tokens) / per_ms)
end

redis.call("HSET", KEYS[1], "tokens", tostring(tokens), "ts", tostring(ts))
redis.call("PEXPIRE", KEYS[1], math.ceil(capacity / per_ms) + 60000)
return {ok, wait_ms}
`)

// RedisLuaLimiter applies one bucket per key. Keys without an explicit
// bucket use the fallback; a zero fallback leaves them unlimited.
type RedisLuaLimiter struct {
	redis    redis.Scripter
	fallback BucketConfig

	mu      sync.RWMutex
	buckets map[string]BucketConfig

	now func() time.Time
}

// NewRedisLuaLimiter returns nil when rdb is nil.
func NewRedisLuaLimiter(rdb redis.Scripter, fallback BucketConfig) *RedisLuaLimiter {
	if rdb == nil {
		return nil
	}
	return &RedisLuaLimiter{
		redis:    rdb,
		fallback: fallback,
		buckets:  map[string]BucketConfig{},
		now:      time.Now,
	}
}

// Allow spends cost tokens from the bucket of key. A cost above the bucket
// capacity can never succeed and is denied without touching Redis. Redis
// errors fail open and are returned alongside allowed=true.
func (l *RedisLuaLimiter) Allow(ctx context.Context, key string, cost int64) (bool, time.Duration, error) {
	if l == nil || l.redis == nil {
		return true, 0, nil
	}
	cfg := l.config(key)
	if cfg.unlimited() {
		return true, 0, nil
	}
	cost = max(cost, 1)
	if cost > cfg.Capacity {
		return false, 0, nil
	}

	res, err := quotaScript.Run(ctx, l.redis, []string{keyPrefix + key},
		cfg.Capacity, cfg.RefillRate, l.now().UnixMilli(), cost).Int64Slice()
	if err != nil {
		slog.Error("resume quota check failed", slog.String("key", key), slog.Any("error", err))
		return true, 0, fmt.Errorf("op=ratelimiter.Allow: %w", err)
	}
	if len(res) != 2 {
		slog.Error("resume quota script returned unexpected result", slog.String("key", key), slog.Any("result", res))
		return true, 0, nil
	}
	return res[0] == 1, time.Duration(res[1]) * time.Millisecond, nil
}

func (l *RedisLuaLimiter) config(key string) BucketConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if cfg, ok := l.buckets[key]; ok {
		return cfg
	}
	return l.fallback
}

// SetBucketConfig overrides the bucket of one key. It is safe for concurrent use.
func (l *RedisLuaLimiter) SetBucketConfig(key string, cfg BucketConfig) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buckets[key] = cfg
}
