package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter counts attempts per key inside a fixed window.
type AttemptLimiter struct {
	rdb    redis.Cmdable
	prefix string
	max    int64
	window time.Duration
}

func NewAttemptLimiter(rdb redis.Cmdable, prefix string, max int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{rdb: rdb, prefix: prefix, max: int64(max), window: window}
}

func (l *AttemptLimiter) key(k string) string {
	return fmt.Sprintf("%s:%s", l.prefix, k)
}

// Allow records one attempt and reports whether it is within the limit.
func (l *AttemptLimiter) Allow(ctx context.Context, k string) (bool, error) {
	key := l.key(k)
	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", key, err)
	}
	if err := l.ensureTTL(ctx, key, n); err != nil {
		return false, err
	}
	return n <= l.max, nil
}

// ensureTTL starts the window on the first attempt and repairs a counter that
// was left without an expiry, so a failed EXPIRE never locks a key for good.
func (l *AttemptLimiter) ensureTTL(ctx context.Context, key string, n int64) error {
	if n > 1 {
		ttl, err := l.rdb.TTL(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("ttl %s: %w", key, err)
		}
		if ttl >= 0 {
			return nil
		}
	}
	if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
		return fmt.Errorf("expire %s: %w", key, err)
	}
	return nil
}

func (l *AttemptLimiter) Reset(ctx context.Context, k string) error {
	return l.rdb.Del(ctx, l.key(k)).Err()
}
