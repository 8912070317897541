package httpclient

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy bounds transient-failure retries with exponential backoff.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	BackoffFactor float64
}

// DefaultRetryPolicy is a conservative policy for mapping service calls.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    3,
		InitialDelay:  500 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

// Retry executes fn, retrying transient failures up to the policy's bound
// with exponential backoff. Non-transient errors return immediately; they
// include conflicts, which are terminal outcomes by contract.
func Retry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	delay := policy.InitialDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	factor := policy.BackoffFactor
	if factor <= 1 {
		factor = 2.0
	}

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}

		if attempt < policy.MaxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * factor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
