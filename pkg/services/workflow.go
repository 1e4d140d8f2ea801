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
	"github.com/create-newspulse/newsdesk/pkg/workflow"
)

// Workflow drives stories through the editorial state machine: one load,
// one engine application, one save. The last write wins on concurrent calls
// against the same story.
type Workflow struct {
	persistence persistence.Persistence
	engine      *workflow.Engine
	eventBus    eventbus.EventBus
	logger      *slog.Logger
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(persistence persistence.Persistence, eventBus eventbus.EventBus, logger *slog.Logger) *Workflow {
	return &Workflow{
		persistence: persistence,
		engine:      workflow.NewEngine(),
		eventBus:    eventBus,
		logger:      logger,
	}
}

// State returns the workflow projection of a story.
func (w *Workflow) State(ctx context.Context, storyID string) (*models.WorkflowState, error) {
	story, err := w.persistence.StoryRepository().GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	return &story.Workflow, nil
}

// Approvals replays a story's approval trail in insertion order.
func (w *Workflow) Approvals(ctx context.Context, storyID string) ([]models.ApprovalRecord, error) {
	return w.persistence.StoryRepository().Approvals(ctx, storyID)
}

// Transition applies one workflow action to a story and persists the result.
// Guard failures surface unchanged; nothing is written when a guard refuses.
func (w *Workflow) Transition(ctx context.Context, storyID string, req workflow.Request) (*models.Story, error) {
	story, err := w.persistence.StoryRepository().GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	next, err := w.engine.Apply(story.Workflow, req)
	if err != nil {
		return nil, err
	}

	story.Workflow = next

	err = w.persistence.StoryRepository().Save(ctx, story)
	if err != nil {
		return nil, fmt.Errorf("failed to save story %s: %w", storyID, err)
	}

	w.emitTransitioned(ctx, story, req)

	return story, nil
}

// PublishDue publishes every scheduled story whose publish time has elapsed,
// acting as the given system actor. Stories whose guards refuse (for example
// a defamation flag withdrawn after scheduling) are skipped and logged, not
// retried here.
func (w *Workflow) PublishDue(ctx context.Context, actor models.Actor) ([]string, error) {
	due, err := w.persistence.StoryRepository().ListDueScheduled(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list due stories: %w", err)
	}

	published := make([]string, 0, len(due))

	for _, story := range due {
		_, err := w.Transition(ctx, story.ID, workflow.Request{
			Action: workflow.ActionPublish,
			Actor:  actor,
		})
		if err != nil {
			log.WithStory(w.logger, story.ID).WarnContext(ctx, "Skipping due story", "error", err)

			continue
		}

		published = append(published, story.ID)
	}

	return published, nil
}

// transitionEventTypes maps each action to the event type it emits.
var transitionEventTypes = map[workflow.Action]events.EventType{
	workflow.ActionToReview: events.StoryReviewRequestedEvent,
	workflow.ActionToLegal:  events.StoryLegalRequestedEvent,
	workflow.ActionApprove:  events.StoryApprovedEvent,
	workflow.ActionSchedule: events.StoryScheduledEvent,
	workflow.ActionPublish:  events.StoryPublishedEvent,
}

// emitTransitioned notifies observers of a persisted transition. Delivery is
// best-effort: a bus failure is logged and never rolls back the transition.
func (w *Workflow) emitTransitioned(ctx context.Context, story *models.Story, req workflow.Request) {
	eventType, ok := transitionEventTypes[req.Action]
	if !ok {
		return
	}

	event := events.StoryTransitioned{
		BaseEvent: events.BaseEvent{
			ID:        w.eventBus.GenerateID(),
			Type:      eventType,
			Timestamp: time.Now().UTC(),
			StoryID:   story.ID,
			Actor:     req.Actor,
		},
		Action:      string(req.Action),
		Status:      story.Workflow.Status,
		Stage:       story.Workflow.Stage,
		ScheduledAt: story.Workflow.ScheduledAt,
	}

	err := w.eventBus.Publish(ctx, story.ID, event)
	if err != nil {
		log.WithStory(w.logger, story.ID).WarnContext(ctx, "Failed to publish story event",
			"event_type", eventType, "error", err)
	}
}
