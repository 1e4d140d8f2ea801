// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrStoryNotFound indicates a story was not found by the given identifier.
	ErrStoryNotFound = errors.New("story not found")

	// ErrStoryAlreadyExists indicates a story with the same identifier already exists.
	ErrStoryAlreadyExists = errors.New("story already exists")

	// ErrInvalidStoryStatus indicates the stored status/stage pair is outside
	// the fixed pairing table.
	ErrInvalidStoryStatus = errors.New("invalid story status")
)

// StoryError wraps story-related errors with additional context.
type StoryError struct {
	Op      string // Operation being performed (e.g., "GetByID", "Save", "Delete")
	StoryID string
	Err     error
}

func (e *StoryError) Error() string {
	return fmt.Sprintf("%s operation failed for story %s: %v", e.Op, e.StoryID, e.Err)
}

func (e *StoryError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for story errors.
func (e *StoryError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewStoryError creates a new story error with context.
func NewStoryError(op, storyID string, err error) *StoryError {
	return &StoryError{
		Op:      op,
		StoryID: storyID,
		Err:     err,
	}
}

// IsStoryNotFound checks if an error indicates a story was not found.
func IsStoryNotFound(err error) bool {
	return errors.Is(err, ErrStoryNotFound)
}
