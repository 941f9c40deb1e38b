package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitEnforcesDelay(t *testing.T) {
	limiter := NewSimpleRateLimiter(50 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx))

	start := time.Now()
	require.NoError(t, limiter.Wait(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestWaitZeroDelayDoesNotBlock(t *testing.T) {
	limiter := NewSimpleRateLimiter(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}

	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWaitCancelled(t *testing.T) {
	limiter := NewSimpleRateLimiter(10 * time.Second)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx))

	cancelledCtx, cancel := context.WithCancel(ctx)
	cancel()

	err := limiter.Wait(cancelledCtx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJitteredDelayStaysInRange(t *testing.T) {
	limiter := NewJitteredRateLimiter(10*time.Millisecond, 20*time.Millisecond)

	for i := 0; i < 100; i++ {
		delay := limiter.calculateDelay()
		assert.GreaterOrEqual(t, delay, 10*time.Millisecond)
		assert.Less(t, delay, 20*time.Millisecond)
	}
}

func TestSetDelay(t *testing.T) {
	limiter := NewSimpleRateLimiter(time.Second)
	limiter.SetDelay(5*time.Millisecond, 5*time.Millisecond)

	assert.Equal(t, 5*time.Millisecond, limiter.calculateDelay())
}
