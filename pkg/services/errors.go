// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
	"fmt"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrInvalidStatus    = errors.New("invalid story status")
	ErrStoryNil         = errors.New("story cannot be nil")

	// ErrInvalidChecklistValue indicates a checklist merge supplied a
	// non-boolean value or an unknown flag name.
	ErrInvalidChecklistValue = errors.New("invalid checklist value")
)

// ChecklistValueError names the offending field of a rejected checklist merge.
type ChecklistValueError struct {
	Field  string
	Reason string
}

func (e *ChecklistValueError) Error() string {
	return fmt.Sprintf("invalid checklist value for %q: %s", e.Field, e.Reason)
}

func (e *ChecklistValueError) Unwrap() error {
	return ErrInvalidChecklistValue
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidSortOrder) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrStoryNil) ||
		errors.Is(err, ErrInvalidChecklistValue)
}
