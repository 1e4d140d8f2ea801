// Package web provides HTTP request and response types for the newsdesk API.
package web

import "time"

// CreateStoryRequest represents the request body for creating a new story.
type CreateStoryRequest struct {
	Title    string   `json:"title"              validate:"required,min=3"`
	Body     string   `json:"body"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}

// TransitionRequest represents the request body for a workflow transition.
// When is only meaningful for the schedule action; Note is attached to the
// approval record when the action appends one.
type TransitionRequest struct {
	Action string     `json:"action" validate:"required"`
	When   *time.Time `json:"when,omitempty"`
	Note   string     `json:"note,omitempty"`
}

// ChecklistPatchRequest is the partial checklist update body. Keys are
// checklist flag names; values must be booleans. Unknown keys and non-boolean
// values are rejected without writing anything.
type ChecklistPatchRequest map[string]any
