package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterSlidingWindow(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter := Limiter{Client: client, Prefix: "ratelimit:widget:"}

	ctx := context.Background()
	window := 2 * time.Second
	max := 2

	for i := 0; i < max; i++ {
		allowed, remaining, _, err := limiter.Allow(ctx, "cart-a", window, max)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d within the window", i)
		assert.Equal(t, max-(i+1), remaining)
	}

	allowed, remaining, _, err := limiter.Allow(ctx, "cart-a", window, max)
	require.NoError(t, err)
	assert.False(t, allowed, "window full")
	assert.Zero(t, remaining)

	allowed, _, _, err = limiter.Allow(ctx, "cart-b", window, max)
	require.NoError(t, err)
	assert.True(t, allowed, "keys are independent")

	mr.FastForward(window)

	allowed, _, _, err = limiter.Allow(ctx, "cart-a", window, max)
	require.NoError(t, err)
	assert.True(t, allowed, "old entries slide out of the window")
}

func TestLimiterDisabledWithoutThresholds(t *testing.T) {
	limiter := Limiter{}
	allowed, _, _, err := limiter.Allow(context.Background(), "cart-a", 0, 0)
	require.NoError(t, err)
	assert.True(t, allowed)
}
