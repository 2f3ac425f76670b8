package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// recordFailure increments the counter and gives it a TTL when it has none,
// so a key left without expiry by an earlier failure heals on the next one.
var recordFailure = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// RedisLimiter counts failures in Redis with a fixed expiry window.
type RedisLimiter struct {
	client      redis.Cmdable
	maxFailures int64
	window      time.Duration
}

// NewRedisLimiter builds a limiter that blocks after maxFailures within window.
func NewRedisLimiter(client redis.Cmdable, maxFailures int, window time.Duration) *RedisLimiter {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisLimiter{client: client, maxFailures: int64(maxFailures), window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, username, ip string) (bool, time.Duration, error) {
	k := key(username, ip)
	count, err := l.client.Get(ctx, k).Int64()
	if errors.Is(err, redis.Nil) {
		return true, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	if count < l.maxFailures {
		return true, 0, nil
	}
	return false, l.retryAfter(ctx, k), nil
}

func (l *RedisLimiter) Failure(ctx context.Context, username, ip string) (bool, time.Duration, error) {
	k := key(username, ip)
	count, err := recordFailure.Run(ctx, l.client, []string{k}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, 0, err
	}
	if count < l.maxFailures {
		return false, 0, nil
	}
	return true, l.retryAfter(ctx, k), nil
}

func (l *RedisLimiter) Success(ctx context.Context, username, ip string) error {
	return l.client.Del(ctx, key(username, ip)).Err()
}

func (l *RedisLimiter) retryAfter(ctx context.Context, k string) time.Duration {
	ttl, err := l.client.TTL(ctx, k).Result()
	if err != nil || ttl < 0 {
		return l.window
	}
	return ttl
}
