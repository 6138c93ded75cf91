package model

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// retryCore retries transient failures with exponential backoff.
type retryCore struct {
	next        Core
	maxAttempts int
	baseDelay   time.Duration
}

// RetryMiddleware creates middleware that retries failed predictions up
// to maxAttempts times, doubling baseDelay between attempts. Context
// cancellation is never retried.
func RetryMiddleware(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return func(next Core) Core {
		return &retryCore{next: next, maxAttempts: maxAttempts, baseDelay: baseDelay}
	}
}

func (r *retryCore) ModelName() string { return r.next.ModelName() }

func (r *retryCore) Predict(ctx context.Context, prompt string, isMultipleChoice bool) (string, error) {
	var lastErr error
	delay := r.baseDelay

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		response, err := r.next.Predict(ctx, prompt, isMultipleChoice)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		if attempt == r.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return "", fmt.Errorf("after %d attempts: %w", r.maxAttempts, lastErr)
}
