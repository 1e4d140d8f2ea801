// Package workflow provides standardized error types for transition guard failures.
package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/create-newspulse/newsdesk/pkg/models"
)

// Guard failures reported synchronously to the caller. None are retried
// internally; a human resolves the checklist or resubmits with permission.
var (
	// ErrUnknownAction indicates the action string matches no transition table row.
	ErrUnknownAction = errors.New("unknown workflow action")

	// ErrInsufficientRole indicates the caller's role is not in the action's role set.
	ErrInsufficientRole = errors.New("insufficient role")

	// ErrChecklistIncomplete indicates a required checklist flag is still false.
	ErrChecklistIncomplete = errors.New("checklist incomplete")

	// ErrInvalidTransition indicates the story's current status does not
	// satisfy the action's stage precondition.
	ErrInvalidTransition = errors.New("invalid transition")
)

// ChecklistError reports which checklist flags block a transition.
type ChecklistError struct {
	Action  Action
	Missing []models.ChecklistFlag
}

func (e *ChecklistError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, flag := range e.Missing {
		names = append(names, string(flag))
	}

	return fmt.Sprintf("checklist incomplete for %s: missing %s", e.Action, strings.Join(names, ", "))
}

func (e *ChecklistError) Unwrap() error {
	return ErrChecklistIncomplete
}

// TransitionError wraps a guard failure with the action and status involved.
type TransitionError struct {
	Action Action
	Status models.StoryStatus
	Role   models.Role
	Err    error
}

func (e *TransitionError) Error() string {
	switch {
	case errors.Is(e.Err, ErrInsufficientRole):
		return fmt.Sprintf("role %s may not %s: %v", e.Role, e.Action, e.Err)
	case errors.Is(e.Err, ErrInvalidTransition):
		return fmt.Sprintf("cannot %s a story in status %s: %v", e.Action, e.Status, e.Err)
	default:
		return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
	}
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// IsUnknownAction checks if an error indicates an unrecognized action string.
func IsUnknownAction(err error) bool {
	return errors.Is(err, ErrUnknownAction)
}

// IsInsufficientRole checks if an error indicates a role authorization failure.
func IsInsufficientRole(err error) bool {
	return errors.Is(err, ErrInsufficientRole)
}

// IsChecklistIncomplete checks if an error indicates missing checklist flags.
func IsChecklistIncomplete(err error) bool {
	return errors.Is(err, ErrChecklistIncomplete)
}

// IsInvalidTransition checks if an error indicates a stage precondition failure.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}
