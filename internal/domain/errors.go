package domain

import "errors"

// Sentinel errors shared by all layers. Repositories and services wrap them
// with %w so callers can classify failures with errors.Is and the HTTP layer
// can translate them into status codes.
var (
	// ErrValidation marks malformed input; rejected before any mutation.
	ErrValidation = errors.New("validation error")

	// ErrConflict marks an optimistic-concurrency mismatch or a uniqueness
	// violation; the caller must re-read and retry.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks a referenced Area/Equipo/Label that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRetryable marks a transient persistence or notifier failure that is
	// safe to retry with backoff.
	ErrRetryable = errors.New("retryable error")
)
