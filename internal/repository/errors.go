package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrInsufficientFunds is returned when a balance adjustment would go below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrConcurrentModification marks serialization failures, deadlocks and
	// busy databases. The write can be retried as a whole.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrStoreUnavailable means the database could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")
	ErrConflict                = errors.New("conflict")
)

// IsRetryable reports whether the whole unit of work may be attempted again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification) || errors.Is(err, ErrStoreUnavailable)
}
