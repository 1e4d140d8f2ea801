package workflow

import (
	"time"

	"github.com/create-newspulse/newsdesk/pkg/models"
)

// DefaultScheduleLead is how far ahead a schedule lands when the caller
// supplies no explicit time.
const DefaultScheduleLead = 10 * time.Minute

// Request describes one attempted transition.
type Request struct {
	Action Action
	Actor  models.Actor
	When   *time.Time // explicit publish time for schedule, optional
	Note   string     // carried into the approval record, optional
}

// Engine interprets the transition table. It is pure: Apply computes the next
// workflow state from the current one, or refuses with a typed error, and
// never touches storage. All guards run before any part of the result is
// built, so a refused transition leaves nothing half-applied.
type Engine struct {
	now func() time.Time
}

// NewEngine creates a transition engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{now: func() time.Time { return time.Now().UTC() }}
}

// Apply validates a requested action against the current state, checklist and
// role, then returns the next workflow state.
func (e *Engine) Apply(state models.WorkflowState, req Request) (models.WorkflowState, error) {
	rule, ok := transitions[req.Action]
	if !ok {
		return state, &TransitionError{Action: req.Action, Status: state.Status, Err: ErrUnknownAction}
	}

	if !roleAllowed(rule.roles, req.Actor.Role) {
		return state, &TransitionError{
			Action: req.Action,
			Status: state.Status,
			Role:   req.Actor.Role,
			Err:    ErrInsufficientRole,
		}
	}

	if missing := state.Checklist.Missing(rule.checklist); len(missing) > 0 {
		return state, &ChecklistError{Action: req.Action, Missing: missing}
	}

	if !statusAllowed(rule.from, state.Status) {
		return state, &TransitionError{Action: req.Action, Status: state.Status, Err: ErrInvalidTransition}
	}

	next := state
	next.Status = rule.to
	next.Stage, _ = models.StageFor(rule.to)

	switch rule.effect {
	case effectAppendApproval:
		// Copy before appending so prior ledger entries shared with the
		// input state can never be rewritten.
		trail := make([]models.ApprovalRecord, len(state.Approvals), len(state.Approvals)+1)
		copy(trail, state.Approvals)

		next.Approvals = append(trail, models.ApprovalRecord{
			By:   req.Actor.ID,
			Role: req.Actor.Role,
			At:   e.now(),
			Note: req.Note,
		})
	case effectSetSchedule:
		at := e.now().Add(DefaultScheduleLead)
		if req.When != nil {
			at = req.When.UTC()
		}

		next.ScheduledAt = &at
	case effectClearSchedule:
		next.ScheduledAt = nil
	case effectNone:
	}

	return next, nil
}
