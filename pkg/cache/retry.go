package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks a remote backend (Redis, MongoDB) that could not be
	// reached: dial failures, timeouts, resets.
	ErrNetwork = errors.New("network error")

	// ErrClosed is returned by operations on a closed cache.
	ErrClosed = errors.New("cache closed")
)

// transient marks an error worth another attempt.
type transient struct{ err error }

func (t transient) Error() string { return t.err.Error() }
func (t transient) Unwrap() error { return t.err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return transient{err}
}

// IsRetryable reports whether err, or anything it wraps, was marked by
// [Retryable].
func IsRetryable(err error) bool {
	var t transient
	return errors.As(err, &t)
}

// RetryDelay is the wait before the second attempt; it doubles after that.
var RetryDelay = time.Second

// RetryAttempts bounds how often RetryWithBackoff calls fn.
const RetryAttempts = 3

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// by [Retryable], or RetryAttempts calls have failed. Cancelling ctx during
// a wait returns ctx.Err().
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := RetryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == RetryAttempts {
			return err
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}
