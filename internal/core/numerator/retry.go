package numerator

import (
	"context"
	"time"

	"jargas/internal/core/apperror"
	"jargas/internal/core/tx"
	"jargas/pkg/logger"
)

// RetryPolicy bounds optimistic retries of number allocation.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy allows 5 attempts with a short fixed pause between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		Delay:       50 * time.Millisecond,
	}
}

// RunWithRetry runs fn in its own transaction per attempt. An attempt that
// fails on a unique number collision is rolled back and retried after
// policy.Delay; any other error is returned immediately. Once the attempts
// are used up the caller gets a conflict error suggesting a retry.
func RunWithRetry(ctx context.Context, txm tx.Manager, series Series, policy RetryPolicy, fn func(ctx context.Context) error) error {
	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = txm.RunInTransaction(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if !apperror.IsDuplicate(lastErr) {
			return lastErr
		}

		logger.Warn(ctx, "document number collision",
			"series", series,
			"attempt", attempt,
			"max_attempts", attempts,
		)

		if attempt == attempts {
			break
		}
		if policy.Delay > 0 {
			timer := time.NewTimer(policy.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return apperror.NewNumberExhausted(string(series), attempts).WithCause(lastErr)
}
