package usage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-ats-backend/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// Lua script for an atomic fixed window stored in a hash
// KEYS[1] = usage key
// ARGV[1] = now in unix milliseconds
// ARGV[2] = window in milliseconds
// Returns: [count, reset_at_ms]
var incrementScript = goredis.NewScript(`
local count = redis.call('HGET', KEYS[1], 'count')
local reset = redis.call('HGET', KEYS[1], 'reset')
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
if (not count) or (not reset) or (now - tonumber(reset) >= window) then
    redis.call('HSET', KEYS[1], 'count', 1, 'reset', now)
    redis.call('PEXPIRE', KEYS[1], window)
    return {1, now}
end
count = redis.call('HINCRBY', KEYS[1], 'count', 1)
return {count, tonumber(reset)}
`)

// RedisStore is a UsageStore shared across processes through Redis
type RedisStore struct {
	client goredis.Cmdable
}

// NewRedisStore wraps a go-redis client
func NewRedisStore(client goredis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, key string) (domain.UsageRecord, bool, error) {
	vals, err := s.client.HMGet(ctx, key, "count", "reset").Result()
	if err != nil {
		return domain.UsageRecord{}, false, fmt.Errorf("redis usage load failed: %w", err)
	}
	if len(vals) < 2 || vals[0] == nil || vals[1] == nil {
		return domain.UsageRecord{}, false, nil
	}

	count, err := strconv.Atoi(fmt.Sprint(vals[0]))
	if err != nil {
		return domain.UsageRecord{}, false, fmt.Errorf("redis usage count is not a number: %w", err)
	}
	resetMs, err := strconv.ParseInt(fmt.Sprint(vals[1]), 10, 64)
	if err != nil {
		return domain.UsageRecord{}, false, fmt.Errorf("redis usage reset is not a number: %w", err)
	}
	return domain.UsageRecord{Count: count, ResetAt: time.UnixMilli(resetMs)}, true, nil
}

func (s *RedisStore) Increment(ctx context.Context, key string, now time.Time, window time.Duration) (domain.UsageRecord, error) {
	result, err := incrementScript.Run(ctx, s.client, []string{key}, now.UnixMilli(), window.Milliseconds()).Result()
	if err != nil {
		return domain.UsageRecord{}, fmt.Errorf("redis usage increment failed: %w", err)
	}

	// Parse result [count, reset_at_ms]
	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return domain.UsageRecord{}, errors.New("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	resetMs, _ := arr[1].(int64)

	return domain.UsageRecord{Count: int(count), ResetAt: time.UnixMilli(resetMs)}, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis usage delete failed: %w", err)
	}
	return nil
}
