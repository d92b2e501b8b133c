package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

func exhaust(t *testing.T, l domain.RateLimiter, key string, attempts int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < attempts; i++ {
		allowed, _, err := l.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d within the limit must be allowed", i+1)
	}
}

func TestMemoryLimiter_BlocksAfterLimit(t *testing.T) {
	l := NewMemoryLimiter(5, time.Minute)

	exhaust(t, l, "+15550000001:10.0.0.1", 5)

	allowed, retryAfter, err := l.Allow(context.Background(), "+15550000001:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed, "6th attempt within the window must be blocked")
	assert.Greater(t, retryAfter, time.Duration(0))

	// Other keys are unaffected.
	allowed, _, err = l.Allow(context.Background(), "+15550000001:10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryLimiter_WindowElapses(t *testing.T) {
	l := NewMemoryLimiter(1, 50*time.Millisecond)

	allowed, _, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, err = l.Allow(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, allowed)

	time.Sleep(60 * time.Millisecond)

	allowed, _, err = l.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, allowed, "a fresh window must admit attempts again")
}

func TestRedisLimiter_BlocksAfterLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	l, err := NewRedisLimiter(client, 3, time.Minute)
	require.NoError(t, err)

	exhaust(t, l, "+15550000002:10.0.0.1", 3)

	allowed, _, err := l.Allow(context.Background(), "+15550000002:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
}
