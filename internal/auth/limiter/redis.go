// Package limiter counts failed login attempts so repeated guessing against
// one account can be throttled.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login_attempts:"

type RedisLimiter struct {
	client redis.Cmdable
}

// NewRedisClient returns a go-redis client for redisURL (e.g.
// redis://localhost:6379/0) after checking the server answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("empty redis url")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

func NewRedisLimiter(client redis.Cmdable) *RedisLimiter {
	return &RedisLimiter{client: client}
}

// hitScript increments the counter and gives it a TTL whenever it has none,
// in one atomic step. A key left without a TTL heals on the next hit.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

func (l *RedisLimiter) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	n, err := hitScript.Run(ctx, l.client, []string{keyPrefix + key}, window.Milliseconds()).Int()
	if err != nil {
		return 0, fmt.Errorf("count login attempt: %w", err)
	}
	return n, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset login attempts: %w", err)
	}
	return nil
}
