package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound indicates a key was not found in the cache.
	ErrNotFound = errors.New("cache key not found")

	// ErrCacheMiss indicates a cache miss where a hit was required.
	ErrCacheMiss = errors.New("cache miss")
)

// Retryable marks errors as transient. Backends wrap network and IO
// failures in RetryableError so callers can retry with backoff.
type Retryable interface {
	error
	Retryable() bool
}

// RetryableError is a transient cache failure.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable cache error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Retryable always reports true.
func (e *RetryableError) Retryable() bool {
	return true
}

// IsRetryable reports whether err is marked as transient.
func IsRetryable(err error) bool {
	var r Retryable
	return errors.As(err, &r) && r.Retryable()
}

// RetryWithBackoff runs fn up to 3 times with exponential backoff,
// retrying only errors that IsRetryable accepts.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const maxAttempts = 3

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
	}
	return err
}
