package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/create-newspulse/newsdesk/pkg/models"
	"github.com/create-newspulse/newsdesk/pkg/persistence"
)

// StoryRepository stores each story as one JSON document under root/stories.
type StoryRepository struct {
	root string
}

// NewStoryRepository creates a new story repository.
func NewStoryRepository(root string) *StoryRepository {
	return &StoryRepository{root: root}
}

// List returns paginated and filtered stories with in-memory operations.
func (sr *StoryRepository) List(ctx context.Context, opts persistence.ListStoriesOptions) (*persistence.StoryListResult, error) {
	// Set defaults
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}

	if opts.SortOrder == "" {
		opts.SortOrder = "desc"
	}

	// Validate sort parameters against allowlist
	allowedSorts := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"title":      true,
	}
	if !allowedSorts[opts.SortBy] {
		return nil, fmt.Errorf("invalid sort field: %s", opts.SortBy)
	}

	allStories, err := sr.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	// Apply filtering
	filtered := make([]*models.Story, 0)

	for _, story := range allStories {
		if opts.Author != "" && story.Author != opts.Author {
			continue
		}

		if opts.Status != nil && story.Workflow.Status != *opts.Status {
			continue
		}

		filtered = append(filtered, story)
	}

	sr.sortStories(filtered, opts.SortBy, opts.SortOrder)

	// Calculate pagination
	totalCount := int64(len(filtered))
	startIdx := opts.Offset
	endIdx := opts.Offset + opts.Limit

	if startIdx >= len(filtered) {
		return &persistence.StoryListResult{
			Stories:     make([]*models.Story, 0),
			TotalCount:  totalCount,
			HasNextPage: false,
		}, nil
	}

	if endIdx > len(filtered) {
		endIdx = len(filtered)
	}

	return &persistence.StoryListResult{
		Stories:     filtered[startIdx:endIdx],
		TotalCount:  totalCount,
		HasNextPage: endIdx < len(filtered),
	}, nil
}

func (sr *StoryRepository) loadAll(ctx context.Context) ([]*models.Story, error) {
	root := os.DirFS(sr.root + "/stories")

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list story files: %w", err)
	}

	stories := make([]*models.Story, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		storyID := file[:len(file)-5] // Remove .json extension

		story, err := sr.GetByID(ctx, storyID)
		if err != nil {
			if persistence.IsStoryNotFound(err) {
				// Soft-deleted on disk; skip.
				continue
			}

			return nil, fmt.Errorf("failed to load story %s: %w", storyID, err)
		}

		stories = append(stories, story)
	}

	return stories, nil
}

// sortStories sorts stories in-place based on the specified field and order.
func (sr *StoryRepository) sortStories(stories []*models.Story, sortBy, sortOrder string) {
	sort.Slice(stories, func(i, j int) bool {
		var less bool

		switch sortBy {
		case "updated_at":
			less = stories[i].UpdatedAt.Before(stories[j].UpdatedAt)
		case "title":
			less = stories[i].Title < stories[j].Title
		default:
			less = stories[i].CreatedAt.Before(stories[j].CreatedAt)
		}

		if sortOrder == "desc" {
			return !less
		}

		return less
	})
}

// storyPath maps an ID to its document path. IDs carrying path separators or
// parent references could escape the stories directory, so they are rejected.
func (sr *StoryRepository) storyPath(id string) (string, bool) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", false
	}

	return filepath.Join(sr.root, "stories", id+".json"), true
}

// GetByID retrieves a story by its ID from the file system.
func (sr *StoryRepository) GetByID(_ context.Context, storyID string) (*models.Story, error) {
	filePath, ok := sr.storyPath(storyID)
	if !ok {
		return nil, persistence.NewStoryError("GetByID", storyID, persistence.ErrStoryNotFound)
	}

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewStoryError("GetByID", storyID, persistence.ErrStoryNotFound)
		}

		return nil, fmt.Errorf("failed to fetch story %s: %w", storyID, err)
	}

	var story models.Story

	err = json.Unmarshal(body, &story)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal story %s: %w", storyID, err)
	}

	if story.DeletedAt != nil {
		return nil, persistence.NewStoryError("GetByID", storyID, persistence.ErrStoryNotFound)
	}

	return &story, nil
}

// Save writes a story to the file system, last write wins.
func (sr *StoryRepository) Save(_ context.Context, story *models.Story) error {
	err := os.MkdirAll(sr.root+"/stories", 0750)
	if err != nil {
		return fmt.Errorf("failed to create stories directory: %w", err)
	}

	now := time.Now().UTC()
	if story.CreatedAt.IsZero() {
		story.CreatedAt = now
	}

	story.UpdatedAt = now

	data, err := json.MarshalIndent(story, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal story %s: %w", story.ID, err)
	}

	filePath, ok := sr.storyPath(story.ID)
	if !ok {
		return fmt.Errorf("invalid story id %q", story.ID)
	}

	return os.WriteFile(filePath, data, 0600)
}

// Delete soft-deletes a story by stamping DeletedAt; the document stays on
// disk so the approval trail survives for audit.
func (sr *StoryRepository) Delete(ctx context.Context, id string) error {
	story, err := sr.GetByID(ctx, id)
	if err != nil {
		return persistence.NewStoryError("Delete", id, persistence.ErrStoryNotFound)
	}

	now := time.Now().UTC()
	story.DeletedAt = &now

	data, err := json.MarshalIndent(story, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal story %s: %w", id, err)
	}

	// GetByID above already rejected escaping IDs.
	filePath, _ := sr.storyPath(id)

	return os.WriteFile(filePath, data, 0600)
}

// Approvals replays a story's approval trail in insertion order.
func (sr *StoryRepository) Approvals(ctx context.Context, id string) ([]models.ApprovalRecord, error) {
	story, err := sr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return story.Workflow.Approvals, nil
}

// ListDueScheduled returns stories whose scheduled publish time has elapsed.
func (sr *StoryRepository) ListDueScheduled(ctx context.Context, now time.Time) ([]*models.Story, error) {
	allStories, err := sr.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	due := make([]*models.Story, 0)

	for _, story := range allStories {
		if story.Workflow.Status != models.StoryStatusScheduled {
			continue
		}

		if story.Workflow.ScheduledAt != nil && !story.Workflow.ScheduledAt.After(now) {
			due = append(due, story)
		}
	}

	return due, nil
}
