package sensor

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// The platform allows 300 requests per 5-minute window and publishes the
// remaining budget on every response via X-RateLimit-Remaining /
// X-RateLimit-Reset headers.

// RateLimiter paces requests against the sensor platform's quota.
type RateLimiter struct {
	mu sync.Mutex

	remaining int
	resetsAt  time.Time

	// Minimum interval between requests
	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a rate limiter with the platform's default quota.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining:   300,
		resetsAt:    time.Now().Add(5 * time.Minute),
		minInterval: 100 * time.Millisecond,
	}
}

// Wait blocks until a request can be made without exceeding the quota.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.After(r.resetsAt) {
		r.remaining = 300
		r.resetsAt = now.Add(5 * time.Minute)
	}

	// Window exhausted: sleep until it resets
	if r.remaining <= 0 {
		waitTime := time.Until(r.resetsAt)
		r.mu.Unlock()
		select {
		case <-time.After(waitTime):
		case <-ctx.Done():
			r.mu.Lock()
			return ctx.Err()
		}
		r.mu.Lock()
		r.remaining = 300
		r.resetsAt = time.Now().Add(5 * time.Minute)
	}

	// Enforce minimum interval between requests
	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval {
		waitTime := r.minInterval - elapsed
		r.mu.Unlock()
		select {
		case <-time.After(waitTime):
		case <-ctx.Done():
			r.mu.Lock()
			return ctx.Err()
		}
		r.mu.Lock()
	}

	r.remaining--
	r.lastRequest = time.Now()
	return nil
}

// UpdateFromHeaders syncs the limiter with the budget the platform reports.
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v := h.Get("X-RateLimit-Remaining"); v != "" {
		if remaining, err := strconv.Atoi(v); err == nil {
			r.remaining = remaining
		}
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			r.resetsAt = time.Unix(unix, 0)
		}
	}
}

// Remaining returns the requests left in the current window.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}
