// Package models defines the core domain models for the editorial publication workflow.
package models

import "time"

// StoryStatus represents the externally visible lifecycle state of a story.
type StoryStatus string

const (
	StoryStatusDraft     StoryStatus = "draft"     // Being written, not yet submitted
	StoryStatusReview    StoryStatus = "review"    // In copy-edit review
	StoryStatusLegal     StoryStatus = "legal"     // Under legal review
	StoryStatusApproved  StoryStatus = "approved"  // Cleared for publication
	StoryStatusScheduled StoryStatus = "scheduled" // Publication time recorded
	StoryStatusPublished StoryStatus = "published" // Live, terminal
)

// StoryStage is the finer-grained workflow pointer used for UI routing.
// It is kept in lockstep with StoryStatus through StageFor.
type StoryStage string

const (
	StageDraft          StoryStage = "draft"
	StageCopyEdit       StoryStage = "copy-edit"
	StageLegal          StoryStage = "legal"
	StageSectionApprove StoryStage = "section-approve"
	StageEICApprove     StoryStage = "eic-approve"
	StageScheduled      StoryStage = "scheduled"
	StagePublished      StoryStage = "published"
)

// statusStages is the fixed status/stage pairing table. No other combination
// is ever observable on a persisted story.
var statusStages = map[StoryStatus]StoryStage{
	StoryStatusDraft:     StageDraft,
	StoryStatusReview:    StageCopyEdit,
	StoryStatusLegal:     StageLegal,
	StoryStatusApproved:  StageEICApprove,
	StoryStatusScheduled: StageScheduled,
	StoryStatusPublished: StagePublished,
}

// StageFor returns the stage paired with a status, and whether the status is known.
func StageFor(status StoryStatus) (StoryStage, bool) {
	stage, ok := statusStages[status]

	return stage, ok
}

// ValidStatusStage reports whether a status/stage combination is one of the
// pairs produced by the transition table.
func ValidStatusStage(status StoryStatus, stage StoryStage) bool {
	expected, ok := statusStages[status]

	return ok && expected == stage
}

// ApprovalRecord is one append-only ledger entry capturing who advanced a
// story past the approval gate.
type ApprovalRecord struct {
	By   string    `json:"by"`
	Role Role      `json:"role"`
	At   time.Time `json:"at"`
	Note string    `json:"note,omitempty"`
}

// WorkflowState is the workflow tuple embedded in a story. It is mutated only
// by the transition engine and the checklist merge; every other subsystem
// treats it as read-only.
type WorkflowState struct {
	Status      StoryStatus      `json:"status"`
	Stage       StoryStage       `json:"stage"`
	ScheduledAt *time.Time       `json:"scheduled_at,omitempty"`
	Approvals   []ApprovalRecord `json:"approvals"`
	Checklist   Checklist        `json:"checklist"`
}

// NewWorkflowState returns the initial workflow state attached to a freshly
// created story: draft/draft, all-false checklist, empty approval trail.
func NewWorkflowState() WorkflowState {
	return WorkflowState{
		Status:    StoryStatusDraft,
		Stage:     StageDraft,
		Approvals: []ApprovalRecord{},
	}
}
