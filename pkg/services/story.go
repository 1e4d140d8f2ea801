// Package services implements the application services gluing the transition
// engine, persistence and the event bus together.
package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/create-newspulse/newsdesk/pkg/models"
	"github.com/create-newspulse/newsdesk/pkg/persistence"
	"github.com/google/uuid"
)

// ErrStoryNotFound is returned when a story is not found.
var ErrStoryNotFound = persistence.ErrStoryNotFound

// Story handles story lifecycle operations outside the workflow itself.
type Story struct {
	persistence persistence.Persistence
}

// NewStory creates a new story service.
func NewStory(persistence persistence.Persistence) *Story {
	return &Story{
		persistence: persistence,
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Story) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListStoriesRequest contains options for listing stories.
type ListStoriesRequest struct {
	// Pagination
	Limit  int
	Offset int

	// Filtering
	Author string
	Status *models.StoryStatus

	// Sorting
	SortBy    string
	SortOrder string
}

// ListStoriesResponse contains the result of listing stories.
type ListStoriesResponse struct {
	Stories     []*models.Story `json:"stories"`
	TotalCount  int64           `json:"total_count"`
	HasNextPage bool            `json:"has_next_page"`
}

// List retrieves stories with filtering, sorting, and pagination.
func (s *Story) List(ctx context.Context, req ListStoriesRequest) (*ListStoriesResponse, error) {
	if err := s.validateListRequest(&req); err != nil {
		return nil, err
	}

	result, err := s.persistence.StoryRepository().List(ctx, persistence.ListStoriesOptions{
		Limit:     req.Limit,
		Offset:    req.Offset,
		Author:    req.Author,
		Status:    req.Status,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	return &ListStoriesResponse{
		Stories:     result.Stories,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}, nil
}

// validateListRequest validates and sets defaults for the request.
func (s *Story) validateListRequest(req *ListStoriesRequest) error {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = "created_at"
	}

	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}

	allowedSorts := []string{"created_at", "updated_at", "title"}
	if !slices.Contains(allowedSorts, req.SortBy) {
		return fmt.Errorf("%w: %q, allowed: %s", ErrInvalidSortField, req.SortBy, strings.Join(allowedSorts, ", "))
	}

	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		return fmt.Errorf("%w: %q, allowed: asc, desc", ErrInvalidSortOrder, req.SortOrder)
	}

	if req.Status != nil {
		if _, ok := models.StageFor(*req.Status); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
		}
	}

	return nil
}

// FetchByID retrieves a story by its ID.
func (s *Story) FetchByID(ctx context.Context, id string) (*models.Story, error) {
	return s.persistence.StoryRepository().GetByID(ctx, id)
}

// Create adds a new story to the repository with a freshly initialized
// workflow state: draft/draft, all-false checklist, empty approvals.
func (s *Story) Create(ctx context.Context, story *models.Story) (*models.Story, error) {
	if story == nil {
		return nil, ErrStoryNil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate story ID: %w", err)
	}

	now := time.Now().UTC()
	story.ID = id.String()
	story.CreatedAt = now
	story.UpdatedAt = now
	story.Workflow = models.NewWorkflowState()

	err = s.persistence.StoryRepository().Save(ctx, story)
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	return story, nil
}

// Delete soft-deletes a story by its ID.
func (s *Story) Delete(ctx context.Context, id string) error {
	return s.persistence.StoryRepository().Delete(ctx, id)
}
