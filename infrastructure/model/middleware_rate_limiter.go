package model

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimitedCore paces requests with a token bucket, keeping the
// harness inside provider rate limits even under batched fan-out.
type rateLimitedCore struct {
	next    Core
	limiter *rate.Limiter
}

// RateLimitMiddleware creates middleware enforcing a sustained
// requests-per-second limit with the given burst allowance. The limiter
// is shared across the middleware's lifetime, so concurrent batch
// workers draw from one bucket.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)
	return func(next Core) Core {
		return &rateLimitedCore{next: next, limiter: limiter}
	}
}

func (r *rateLimitedCore) ModelName() string { return r.next.ModelName() }

func (r *rateLimitedCore) Predict(ctx context.Context, prompt string, isMultipleChoice bool) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Predict(ctx, prompt, isMultipleChoice)
}
