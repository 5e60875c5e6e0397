package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Compile-time interface check.
var _ Store = (*RedisStore)(nil)

// RedisStore keeps each counter as a hash with fields "count" and "rule".
// The key expires with the window, which starts the next one.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "ratelimit:"}
}

// incrementScript restarts the counter when the rule changed or the key
// expired, otherwise increments it. Returns {count, pttl_ms}.
//
// KEYS[1] = counter key
// ARGV[1] = rule key
// ARGV[2] = window length in milliseconds
var incrementScript = redis.NewScript(`
local key = KEYS[1]
local rule = ARGV[1]
local ttl = tonumber(ARGV[2])

local current_rule = redis.call("HGET", key, "rule")
if current_rule ~= rule then
    redis.call("DEL", key)
    redis.call("HSET", key, "count", "1", "rule", rule)
    redis.call("PEXPIRE", key, ttl)
    return {1, ttl}
end

local count = redis.call("HINCRBY", key, "count", 1)
local pttl = redis.call("PTTL", key)
if pttl < 0 then
    redis.call("PEXPIRE", key, ttl)
    pttl = ttl
end
return {count, pttl}
`)

func (r *RedisStore) Increment(ctx context.Context, key string, w Window) (Counter, error) {
	res, err := incrementScript.Run(ctx, r.client, []string{r.prefix + key}, w.RuleKey, w.Period.Milliseconds()).Int64Slice()
	if err != nil {
		return Counter{}, fmt.Errorf("redis increment %q: %w", key, err)
	}
	if len(res) != 2 {
		return Counter{}, fmt.Errorf("redis increment %q: unexpected reply %v", key, res)
	}
	return Counter{
		Count:   res[0],
		ResetAt: w.Now.Add(time.Duration(res[1]) * time.Millisecond),
	}, nil
}

func (r *RedisStore) Reset(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis reset %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
