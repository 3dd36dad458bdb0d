// internal/pkg/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter kept in Redis.
type Limiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

func NewLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

// Allow counts one hit for key in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	k := fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	// Set expiration on first hit
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("failed to set rate window: %w", err)
		}
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	res := Result{Allowed: count <= l.limit, Remaining: remaining}
	if !res.Allowed {
		ttl, err := l.client.TTL(ctx, k).Result()
		if err != nil {
			return Result{}, fmt.Errorf("failed to read rate window: %w", err)
		}
		if ttl < 0 {
			// counter lost its expiry; start a fresh window
			l.client.Expire(ctx, k, l.window)
			ttl = l.window
		}
		res.RetryAfter = ttl
	}

	return res, nil
}

// Reset clears the counter for key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)).Err()
}
