package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// busyPolicy bounds how long a writer waits on another process holding the
// database. Short first wait: most contention is one concurrent CLI call.
func busyPolicy() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 25 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = 8 * time.Second
	b.RandomizationFactor = 0.2
	return b
}

// RetryWithBackoff retries operation while SQLite reports the database busy.
func RetryWithBackoff(operation func() error) error {
	return RetryContext(context.Background(), operation)
}

// RetryContext is RetryWithBackoff that gives up once ctx is done. Domain
// failures (not found, conflicts, forbidden) are returned on the first try.
func RetryContext(ctx context.Context, operation func() error) error {
	return backoff.Retry(func() error {
		err := operation()
		switch {
		case err == nil:
			return nil
		case isRetryableError(err):
			return err
		default:
			return backoff.Permanent(err)
		}
	}, backoff.WithContext(busyPolicy(), ctx))
}

// isRetryableError reports transient contention: a busy or locked database,
// or a request id whose first attempt has not committed yet.
//
// modernc.org/sqlite surfaces busy errors only through their message text.
func isRetryableError(err error) bool {
	if errors.Is(err, ErrIdempotencyInProgress) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
