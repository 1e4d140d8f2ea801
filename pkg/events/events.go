// Package events defines event types emitted on successful workflow mutations.
// Downstream consumers (push notification sender, analytics) subscribe to
// these; the transition engine never waits on them.
package events

import (
	"time"

	"github.com/create-newspulse/newsdesk/pkg/models"
)

type EventType string

// Topic is the single stream carrying all story workflow events.
const Topic = "newsdesk.stories"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	StoryReviewRequestedEvent EventType = "story.review.requested"
	StoryLegalRequestedEvent  EventType = "story.legal.requested"
	StoryApprovedEvent        EventType = "story.approved"
	StoryScheduledEvent       EventType = "story.scheduled"
	StoryPublishedEvent       EventType = "story.published"
	ChecklistUpdatedEvent     EventType = "story.checklist.updated"
)

// BaseEvent carries the fields shared by every story event.
type BaseEvent struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	StoryID   string       `json:"story_id"`
	Actor     models.Actor `json:"actor"`
}

// StoryTransitioned reports a successful workflow transition. One struct
// serves every transition event; Type discriminates the action.
type StoryTransitioned struct {
	BaseEvent

	Action      string             `json:"action"`
	Status      models.StoryStatus `json:"status"`
	Stage       models.StoryStage  `json:"stage"`
	ScheduledAt *time.Time         `json:"scheduled_at,omitempty"`
}

func (s StoryTransitioned) GetType() EventType {
	return s.Type
}

// ChecklistUpdated reports a compliance flag merge.
type ChecklistUpdated struct {
	BaseEvent

	Checklist models.Checklist `json:"checklist"`
	Changed   []string         `json:"changed"`
}

func (c ChecklistUpdated) GetType() EventType {
	return ChecklistUpdatedEvent
}
