// Package ratelimit adapts ulule/limiter stores to the domain.RateLimiter
// capability. The memory store is process-local: counters are not shared
// across instances, so a horizontally-scaled deployment should select the
// Redis store instead.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

// LimiterImpl implements domain.RateLimiter over a ulule/limiter instance
type LimiterImpl struct {
	limiter *limiter.Limiter
}

// NewMemoryLimiter creates a process-local sliding-window limiter allowing
// `attempts` hits per `window` for each key.
func NewMemoryLimiter(attempts int, window time.Duration) domain.RateLimiter {
	rate := limiter.Rate{Period: window, Limit: int64(attempts)}
	return &LimiterImpl{limiter: limiter.New(memory.NewStore(), rate)}
}

// NewRedisLimiter creates a Redis-backed limiter sharing counters across
// process instances.
func NewRedisLimiter(client *redis.Client, attempts int, window time.Duration) (domain.RateLimiter, error) {
	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "ratelimit:login",
	})
	if err != nil {
		return nil, err
	}
	rate := limiter.Rate{Period: window, Limit: int64(attempts)}
	return &LimiterImpl{limiter: limiter.New(store, rate)}, nil
}

// Allow implements domain.RateLimiter. Each call consumes one attempt.
func (l *LimiterImpl) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	res, err := l.limiter.Get(ctx, key)
	if err != nil {
		return false, 0, err
	}
	if res.Reached {
		retryAfter := time.Until(time.Unix(res.Reset, 0))
		if retryAfter < 0 {
			retryAfter = 0
		}
		return false, retryAfter, nil
	}
	return true, 0, nil
}
