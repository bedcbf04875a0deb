package api

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket: up to maxTokens requests may burst, then
// one token is added every refill.
type RateLimiter struct {
	mu        sync.Mutex
	tokens    int
	maxTokens int
	refill    time.Duration
	last      time.Time
	now       func() time.Time
}

func NewRateLimiter(maxTokens int, refill time.Duration) *RateLimiter {
	if maxTokens < 1 {
		maxTokens = 1
	}
	return &RateLimiter{
		tokens:    maxTokens,
		maxTokens: maxTokens,
		refill:    refill,
		last:      time.Now(),
		now:       time.Now,
	}
}

// Wait blocks until a token is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait := rl.reserve()
		if wait == 0 {
			return nil
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// reserve takes a token and returns 0, or returns how long until the next
// token is due.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.refill <= 0 {
		return 0
	}

	now := rl.now()
	if n := int(now.Sub(rl.last) / rl.refill); n > 0 {
		rl.tokens += n
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.last = rl.last.Add(time.Duration(n) * rl.refill)
	}

	if rl.tokens > 0 {
		rl.tokens--
		return 0
	}
	return rl.refill - now.Sub(rl.last)
}

// WithRateLimit makes every request wait on rl first.
func WithRateLimit(rl *RateLimiter) ClientOption {
	return func(c *Client) {
		c.limiter = rl
	}
}
