package services

import (
	"context"
	"strconv"
	"time"

	"github.com/create-newspulse/newsdesk/pkg/eventbus"
	"github.com/create-newspulse/newsdesk/pkg/events"
	"github.com/create-newspulse/newsdesk/pkg/models"
	"github.com/create-newspulse/newsdesk/pkg/persistence"
)

// Simple in-memory story repository for service tests.
type testStoryRepository struct {
	stories map[string]*models.Story
}

func (r *testStoryRepository) List(_ context.Context, opts persistence.ListStoriesOptions) (*persistence.StoryListResult, error) {
	filtered := make([]*models.Story, 0, len(r.stories))

	for _, story := range r.stories {
		if story.DeletedAt != nil {
			continue
		}

		if opts.Author != "" && story.Author != opts.Author {
			continue
		}

		if opts.Status != nil && story.Workflow.Status != *opts.Status {
			continue
		}

		filtered = append(filtered, story)
	}

	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	totalCount := int64(len(filtered))

	startIdx := opts.Offset
	if startIdx >= len(filtered) {
		return &persistence.StoryListResult{
			Stories:    make([]*models.Story, 0),
			TotalCount: totalCount,
		}, nil
	}

	endIdx := opts.Offset + opts.Limit
	if endIdx > len(filtered) {
		endIdx = len(filtered)
	}

	return &persistence.StoryListResult{
		Stories:     filtered[startIdx:endIdx],
		TotalCount:  totalCount,
		HasNextPage: endIdx < len(filtered),
	}, nil
}

func (r *testStoryRepository) GetByID(_ context.Context, id string) (*models.Story, error) {
	story, exists := r.stories[id]
	if !exists || story.DeletedAt != nil {
		return nil, persistence.NewStoryError("GetByID", id, persistence.ErrStoryNotFound)
	}

	copied := *story

	return &copied, nil
}

func (r *testStoryRepository) Save(_ context.Context, story *models.Story) error {
	copied := *story
	r.stories[story.ID] = &copied

	return nil
}

func (r *testStoryRepository) Delete(_ context.Context, id string) error {
	story, exists := r.stories[id]
	if !exists || story.DeletedAt != nil {
		return persistence.NewStoryError("Delete", id, persistence.ErrStoryNotFound)
	}

	now := time.Now().UTC()
	story.DeletedAt = &now

	return nil
}

func (r *testStoryRepository) Approvals(ctx context.Context, id string) ([]models.ApprovalRecord, error) {
	story, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return story.Workflow.Approvals, nil
}

func (r *testStoryRepository) ListDueScheduled(_ context.Context, now time.Time) ([]*models.Story, error) {
	due := make([]*models.Story, 0)

	for _, story := range r.stories {
		if story.DeletedAt != nil || story.Workflow.Status != models.StoryStatusScheduled {
			continue
		}

		if story.Workflow.ScheduledAt != nil && !story.Workflow.ScheduledAt.After(now) {
			copied := *story
			due = append(due, &copied)
		}
	}

	return due, nil
}

type testPersistence struct {
	storyRepo *testStoryRepository
}

func (p *testPersistence) HealthCheck(_ context.Context) error { return nil }
func (p *testPersistence) Close(_ context.Context) error       { return nil }

func (p *testPersistence) StoryRepository() persistence.StoryRepository {
	return p.storyRepo
}

func createTestPersistence() *testPersistence {
	return &testPersistence{
		storyRepo: &testStoryRepository{
			stories: make(map[string]*models.Story),
		},
	}
}

// captureBus records published events instead of delivering them.
type captureBus struct {
	published []eventbus.Event
	nextID    int
}

func (b *captureBus) Publish(_ context.Context, _ string, event eventbus.Event) error {
	b.published = append(b.published, event)

	return nil
}

func (b *captureBus) Handle(_ events.EventType, _ eventbus.EventHandler) error { return nil }
func (b *captureBus) Subscribe(_ context.Context) error                        { return nil }
func (b *captureBus) Close() error                                             { return nil }

func (b *captureBus) GenerateID() string {
	b.nextID++

	return "evt-" + strconv.Itoa(b.nextID)
}
