package models

import "time"

// Story is a news story with its embedded workflow state. Content fields are
// plain data here; the workflow engine only reads the Workflow member.
type Story struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"    validate:"required,min=3"`
	Body      string        `json:"body"`
	Category  string        `json:"category"`
	Tags      []string      `json:"tags,omitempty"`
	Author    string        `json:"author"   validate:"required"`
	Workflow  WorkflowState `json:"workflow"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	DeletedAt *time.Time    `json:"deleted_at,omitempty"`
}

// IsPublished reports whether the story has reached the terminal state.
func (s *Story) IsPublished() bool {
	return s.Workflow.Status == StoryStatusPublished
}
