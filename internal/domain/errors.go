package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a direct lookup that matched nothing. It is surfaced
// as such, never silently substituted with an empty result.
var ErrNotFound = errors.New("not found")

// ValidationError rejects malformed or out-of-domain selection input. It
// carries the offending field so the caller can point at it.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Invalid builds a ValidationError for field.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// AsValidation unwraps err as a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// StoreError marks a catalog-store call that failed or timed out. The
// primary page fetch surfaces it as a retryable service error; individual
// facet probes absorb it per the conservative enable policy.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("catalog store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreError reports whether err originated in the catalog store.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
