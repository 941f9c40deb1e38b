package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// RateLimiter spaces out requests against the target site.
type RateLimiter interface {
	Wait(ctx context.Context) error
	SetDelay(min, max time.Duration)
}

// SimpleRateLimiter enforces a delay between consecutive actions. When
// min and max differ, the delay is jittered within the range.
type SimpleRateLimiter struct {
	minDelay   time.Duration
	maxDelay   time.Duration
	lastAction time.Time
	mu         sync.Mutex
}

// NewSimpleRateLimiter builds a limiter with a fixed delay.
func NewSimpleRateLimiter(delay time.Duration) *SimpleRateLimiter {
	return &SimpleRateLimiter{
		minDelay: delay,
		maxDelay: delay,
	}
}

// NewJitteredRateLimiter builds a limiter drawing delays from [min, max].
func NewJitteredRateLimiter(min, max time.Duration) *SimpleRateLimiter {
	if max < min {
		max = min
	}
	return &SimpleRateLimiter{
		minDelay: min,
		maxDelay: max,
	}
}

// Wait blocks until the configured delay since the previous action has
// elapsed, or the context is cancelled.
func (r *SimpleRateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.lastAction)
	delay := r.calculateDelay()

	if elapsed < delay {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay - elapsed):
		}
	}

	r.lastAction = time.Now()
	return nil
}

func (r *SimpleRateLimiter) SetDelay(min, max time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.minDelay = min
	r.maxDelay = max
}

func (r *SimpleRateLimiter) calculateDelay() time.Duration {
	if r.minDelay >= r.maxDelay {
		return r.minDelay
	}

	delta := r.maxDelay - r.minDelay
	return r.minDelay + time.Duration(rand.Int63n(int64(delta)))
}
