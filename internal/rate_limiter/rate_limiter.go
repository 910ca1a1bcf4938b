package rate_limiter

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a sliding-window limiter keyed by client.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

// NewRateLimiter starts a janitor that forgets idle clients until ctx is done.
func NewRateLimiter(ctx context.Context, limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}

	go rl.cleanupLoop(ctx)

	return rl
}

func (rl *RateLimiter) Limit() int {
	return rl.limit
}

func (rl *RateLimiter) Window() time.Duration {
	return rl.window
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	windowStart := rl.now().Add(-rl.window)
	for key, times := range rl.requests {
		valid := recent(times, windowStart)
		if len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

// IsAllowed records an attempt for key and reports whether it fits the window.
func (rl *RateLimiter) IsAllowed(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	valid := recent(rl.requests[key], now.Add(-rl.window))
	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

func (rl *RateLimiter) GetRemainingRequests(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	remaining := rl.limit - len(recent(rl.requests[key], rl.now().Add(-rl.window)))
	if remaining < 0 {
		return 0
	}
	return remaining
}

func recent(times []time.Time, windowStart time.Time) []time.Time {
	var valid []time.Time
	for _, t := range times {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	return valid
}
