// Package backoff provides retry with exponential backoff for transient
// failures, such as connecting to a remote cache backend at startup.
package backoff

import (
	"context"
	"errors"
	"time"
)

// TransientError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, refused connections) with
// this type so that [Retry] knows to attempt the operation again.
type TransientError struct{ Err error }

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient marks err as retryable. A nil err returns nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// Retry executes fn up to attempts times with exponential backoff.
// It only retries errors wrapped with [TransientError]; other errors are
// returned immediately. The delay doubles after each failed attempt.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isTransient(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithDefaults is a convenience wrapper around [Retry] with
// 3 attempts and 1 second initial delay (doubling each retry).
func RetryWithDefaults(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isTransient(err error) bool {
	return errors.As(err, new(*TransientError))
}
