package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/create-newspulse/newsdesk/pkg/eventbus"
	"github.com/create-newspulse/newsdesk/pkg/events"
	"github.com/create-newspulse/newsdesk/pkg/log"
	"github.com/create-newspulse/newsdesk/pkg/models"
	"github.com/create-newspulse/newsdesk/pkg/persistence"
)

// Checklist holds and merges the compliance flags attached to a story.
// Merge is the only mutator; repeating an identical merge is a no-op.
type Checklist struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	logger      *slog.Logger
}

// NewChecklist creates a new checklist service.
func NewChecklist(persistence persistence.Persistence, eventBus eventbus.EventBus, logger *slog.Logger) *Checklist {
	return &Checklist{
		persistence: persistence,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Get returns a story's current compliance flags.
func (c *Checklist) Get(ctx context.Context, storyID string) (models.Checklist, error) {
	story, err := c.persistence.StoryRepository().GetByID(ctx, storyID)
	if err != nil {
		return models.Checklist{}, err
	}

	return story.Workflow.Checklist, nil
}

// Merge shallow-merges the supplied flags into the stored checklist and
// returns the resulting full checklist. Keys absent from the patch keep
// their prior value; non-boolean values and unknown flag names are rejected
// before anything is written.
func (c *Checklist) Merge(ctx context.Context, storyID string, patch map[string]any) (models.Checklist, error) {
	flags := make(map[models.ChecklistFlag]bool, len(patch))

	for field, raw := range patch {
		value, ok := raw.(bool)
		if !ok {
			return models.Checklist{}, &ChecklistValueError{Field: field, Reason: "flags must be booleans"}
		}

		flags[models.ChecklistFlag(field)] = value
	}

	for flag := range flags {
		known := false

		for _, candidate := range models.ChecklistFlags {
			if candidate == flag {
				known = true

				break
			}
		}

		if !known {
			return models.Checklist{}, &ChecklistValueError{Field: string(flag), Reason: "unknown flag"}
		}
	}

	story, err := c.persistence.StoryRepository().GetByID(ctx, storyID)
	if err != nil {
		return models.Checklist{}, err
	}

	changed := make([]string, 0, len(flags))

	for _, flag := range models.ChecklistFlags {
		value, supplied := flags[flag]
		if !supplied {
			continue
		}

		if story.Workflow.Checklist.Flag(flag) != value {
			changed = append(changed, string(flag))
		}

		story.Workflow.Checklist.SetFlag(flag, value)
	}

	err = c.persistence.StoryRepository().Save(ctx, story)
	if err != nil {
		return models.Checklist{}, fmt.Errorf("failed to save checklist for story %s: %w", storyID, err)
	}

	c.emitUpdated(ctx, story, changed)

	return story.Workflow.Checklist, nil
}

func (c *Checklist) emitUpdated(ctx context.Context, story *models.Story, changed []string) {
	if len(changed) == 0 {
		return
	}

	event := events.ChecklistUpdated{
		BaseEvent: events.BaseEvent{
			ID:        c.eventBus.GenerateID(),
			Type:      events.ChecklistUpdatedEvent,
			Timestamp: time.Now().UTC(),
			StoryID:   story.ID,
		},
		Checklist: story.Workflow.Checklist,
		Changed:   changed,
	}

	err := c.eventBus.Publish(ctx, story.ID, event)
	if err != nil {
		log.WithStory(c.logger, story.ID).WarnContext(ctx, "Failed to publish checklist event", "error", err)
	}
}
