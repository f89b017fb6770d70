/*
errors.go - Error taxonomy for the wage engine

ERROR CATEGORIES:
  1. Validation errors - missing or malformed input on the write path
  2. Not-found errors  - delete target absent from the collection
  3. Backend errors    - anything the storage backend returns, wrapped

Parse failures inside ElapsedSplit and IsRestDay are not errors at all:
those functions degrade to zero values. BuildEntry parses strictly first,
so malformed input on the write path surfaces as a ValidationError.

USAGE:
  if wage.IsNotFound(err) {
      // 404
  }
*/
package wage

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when required input is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when no entry exists for a date.
	ErrNotFound = errors.New("entry not found")

	// ErrBackendRequired is returned by NewEntryStore without a backend.
	ErrBackendRequired = errors.New("entry store requires a backend")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError carries the date that was looked up.
type NotFoundError struct {
	Date string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entry not found: %s", e.Date)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing entry.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
