package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript applies the token bucket algorithm atomically on the Redis
// side so that concurrent consumers across processes see consistent state.
//
// KEYS[1] = bucket key
// ARGV[1] = capacity
// ARGV[2] = refill rate
// ARGV[3] = refill interval (ms)
// ARGV[4] = tokens to consume
// ARGV[5] = now (unix ms)
// ARGV[6] = key TTL (ms)
//
// Returns {remaining, reset_at_ms}.
var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])
local now = tonumber(ARGV[5])
local ttl = tonumber(ARGV[6])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'last_refill')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])
if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now
end

local max_intervals = math.floor(capacity / refill_rate) + 1
local intervals = math.floor((now - last_refill) / interval)
if intervals > max_intervals then
	intervals = max_intervals
end
if intervals > 0 then
	tokens = math.min(tokens + intervals * refill_rate, capacity)
	last_refill = now
end

tokens = tokens - requested

redis.call('HSET', KEYS[1], 'tokens', tokens, 'last_refill', last_refill)
redis.call('PEXPIRE', KEYS[1], ttl)

return {tokens, last_refill + interval}
`)

// RedisStore implements Store on Redis, sharing bucket state across
// application instances.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKeyPrefix sets the key prefix for bucket state. Default "ratelimit:".
func WithRedisKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		if prefix != "" {
			rs.keyPrefix = prefix
		}
	}
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: redis client is required", ErrInvalidConfig)
	}

	rs := &RedisStore{
		client:    client,
		keyPrefix: "ratelimit:",
	}

	for _, opt := range opts {
		opt(rs)
	}

	return rs, nil
}

// ConsumeTokens attempts to consume tokens from the bucket.
func (rs *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	now := time.Now()

	// Keep the key around long enough to refill from empty, with slack.
	fillIntervals := int64(config.Capacity/config.RefillRate) + 1
	ttl := time.Duration(fillIntervals) * config.RefillInterval * 2
	if ttl < time.Minute {
		ttl = time.Minute
	}

	res, err := consumeScript.Run(ctx, rs.client, []string{rs.keyPrefix + key},
		config.Capacity,
		config.RefillRate,
		config.RefillInterval.Milliseconds(),
		tokens,
		now.UnixMilli(),
		ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("consume tokens: %w", err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("consume tokens: unexpected script result length %d", len(res))
	}

	return int(res[0]), time.UnixMilli(res[1]), nil
}

// Reset removes the bucket state for key.
func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset bucket: %w", err)
	}
	return nil
}

// Healthcheck validates Redis connectivity.
func (rs *RedisStore) Healthcheck(ctx context.Context) error {
	if err := rs.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
