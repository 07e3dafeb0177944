package ratelimiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter bounds the request rate of one session using a token bucket.
//
// Tokens refill at a constant rate (requests per second) and each request
// consumes one; burst capacity absorbs short spikes above the sustained
// rate. A session that exhausts its bucket gets its requests answered with
// an error status rather than having the stream stalled, so one noisy
// client cannot tie up its worker.
//
// All methods are safe for concurrent use, which matters here because
// pipelined requests within a session are checked from the session worker
// while earlier requests are still in flight.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New creates a RateLimiter allowing requestsPerSecond sustained and burst
// immediate requests. requestsPerSecond of 0 disables limiting.
func New(requestsPerSecond, burst uint) *RateLimiter {
	if requestsPerSecond == 0 {
		// Unlimited: rate.Inf has awkward burst semantics, a huge finite
		// limit behaves the same in practice.
		requestsPerSecond = 1_000_000_000
		burst = requestsPerSecond
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst)),
	}
}

// Allow reports whether one more request fits under the limit, consuming a
// token if so. This is the non-blocking fast path used per request.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Reserve returns how long the caller would need to wait for a token
// without consuming one immediately.
func (r *RateLimiter) Reserve() time.Duration {
	res := r.limiter.Reserve()
	if !res.OK() {
		return time.Duration(-1)
	}
	delay := res.Delay()
	res.Cancel()
	return delay
}
