// Package retry provides exponential backoff for transient failures,
// used by the backup client for object storage calls.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultAttempts     = 4
	defaultInitialDelay = 500 * time.Millisecond
	defaultMaxDelay     = 10 * time.Second
)

// WithBackoff runs operation until it succeeds, returns a fatal error,
// or all attempts are used up. Delays double between attempts and
// context cancellation is respected while waiting.
func WithBackoff(ctx context.Context, operation func() error) error {
	delay := defaultInitialDelay
	var lastErr error

	for attempt := 1; attempt <= defaultAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		var fatal *fatalError
		if errors.As(err, &fatal) {
			return fatal.err
		}

		if attempt < defaultAttempts {
			select {
			case <-ctx.Done():
				return fmt.Errorf("cancelled after %d attempts: %w", attempt, ctx.Err())
			case <-time.After(delay):
				delay *= 2
				if delay > defaultMaxDelay {
					delay = defaultMaxDelay
				}
			}
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", defaultAttempts, lastErr)
}

type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }

func (e *fatalError) Unwrap() error { return e.err }

// Fatal marks err as non-retryable. WithBackoff returns the wrapped
// error immediately without further attempts.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}
