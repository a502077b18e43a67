package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills and takes from a bucket stored as a Redis hash in
// one round trip. It returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + (intervals * refill_tokens))
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisLimiter(rdb *redis.Client, prefix string, ttl time.Duration) *RedisLimiter {
	if ttl < time.Second {
		ttl = 10 * time.Minute
	}
	return &RedisLimiter{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (l *RedisLimiter) Allow(ctx context.Context, userID, action string) (bool, time.Duration, error) {
	policy := PolicyFor(action)
	args := []interface{}{
		time.Now().UnixMilli(),
		policy.Capacity,
		policy.RefillTokens,
		policy.RefillInterval.Milliseconds(),
		int64(l.ttl / time.Second),
	}

	vals, err := tokenBucketScript.Run(ctx, l.rdb, []string{l.key(userID, action)}, args...).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script: %w", err)
	}

	return parseScriptResult(vals)
}

func (l *RedisLimiter) key(userID, action string) string {
	return strings.Join([]string{l.prefix, "user", userID, action}, ":")
}

func parseScriptResult(vals interface{}) (bool, time.Duration, error) {
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		return false, 0, fmt.Errorf("rate limit script: unexpected result %#v", vals)
	}

	allowed := asInt64(arr[0]) == 1
	retry := time.Duration(asInt64(arr[2])) * time.Millisecond
	return allowed, retry, nil
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// NewRedisClient connects and pings with a short timeout.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
