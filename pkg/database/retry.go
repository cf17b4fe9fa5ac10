package database

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
)

const (
	maxAttempts  = 3
	initialDelay = 50 * time.Millisecond
)

// IsUniqueViolation reports whether the error is a unique-constraint
// violation, optionally narrowed to one constraint name.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsForeignKeyViolation reports whether the error is a FK or RESTRICT
// violation, e.g. deleting a carrera that still has alumnos.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func isRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// serialization_failure, deadlock_detected
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

// WithRetry runs fn, retrying up to three times with exponential backoff when
// the database reports a serialization failure or deadlock. Any other error
// aborts immediately.
func WithRetry(ctx context.Context, fn func(context.Context) error) error {
	delay := initialDelay
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
