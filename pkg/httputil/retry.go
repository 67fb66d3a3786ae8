// Package httputil provides the shared HTTP plumbing for remote catalog
// and cover fetching: a cached GET client and retry with backoff.
package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient. Wrap network timeouts and
// 5xx responses with it so [Retry] attempts the call again; anything else
// fails immediately.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times, doubling the delay after each
// failure. Only errors wrapped in [RetryableError] are retried. Returns
// the last error when every attempt fails, or ctx.Err() on cancellation.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
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

// RetryWithBackoff runs [Retry] with the default policy: 3 attempts
// starting at one second.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
