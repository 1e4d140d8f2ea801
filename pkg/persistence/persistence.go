// Package persistence provides the data storage abstraction for stories and
// their embedded workflow state.
package persistence

import (
	"context"
	"time"

	"github.com/create-newspulse/newsdesk/pkg/models"
)

// ListStoriesOptions controls filtering, sorting and pagination for listings.
type ListStoriesOptions struct {
	Limit     int
	Offset    int
	Author    string
	Status    *models.StoryStatus
	SortBy    string // created_at, updated_at, title
	SortOrder string // asc, desc
}

// StoryListResult carries one page of stories plus pagination metadata.
type StoryListResult struct {
	Stories     []*models.Story
	TotalCount  int64
	HasNextPage bool
}

// StoryRepository is the keyed story store the workflow engine runs against.
// Save is a blind last-write-wins overwrite; concurrent transitions on the
// same story are not serialized here.
type StoryRepository interface {
	List(ctx context.Context, opts ListStoriesOptions) (*StoryListResult, error)
	GetByID(ctx context.Context, id string) (*models.Story, error)
	Save(ctx context.Context, story *models.Story) error
	Delete(ctx context.Context, id string) error

	// Approvals replays a story's approval trail in insertion order.
	Approvals(ctx context.Context, id string) ([]models.ApprovalRecord, error)

	// ListDueScheduled returns stories whose scheduled publish time has
	// elapsed at the given instant.
	ListDueScheduled(ctx context.Context, now time.Time) ([]*models.Story, error)
}

type Persistence interface {
	StoryRepository() StoryRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
