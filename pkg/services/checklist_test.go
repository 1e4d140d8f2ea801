package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/create-newspulse/newsdesk/pkg/events"
	"github.com/create-newspulse/newsdesk/pkg/models"
	"github.com/create-newspulse/newsdesk/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecklist_MergeIsPartial(t *testing.T) {
	p := createTestPersistence()
	service := NewChecklist(p, &captureBus{}, slog.Default())

	state := models.NewWorkflowState()
	state.Checklist.RightsCleared = true

	seedStory(t, p, state)

	merged, err := service.Merge(context.Background(), "story-1", map[string]any{
		"ptiCompliance": true,
	})
	require.NoError(t, err)

	// the merge touched only the supplied key
	assert.True(t, merged.PTICompliance)
	assert.True(t, merged.RightsCleared)
	assert.False(t, merged.AttributionPresent)
	assert.False(t, merged.DefamationScanOk)
}

func TestChecklist_MergeRejectsNonBoolean(t *testing.T) {
	p := createTestPersistence()
	service := NewChecklist(p, &captureBus{}, slog.Default())

	seedStory(t, p, models.NewWorkflowState())

	_, err := service.Merge(context.Background(), "story-1", map[string]any{
		"ptiCompliance": "yes",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidChecklistValue))
	assert.Contains(t, err.Error(), "ptiCompliance")

	// nothing was written
	stored, err := p.storyRepo.GetByID(context.Background(), "story-1")
	require.NoError(t, err)
	assert.False(t, stored.Workflow.Checklist.PTICompliance)
}

func TestChecklist_MergeRejectsUnknownFlag(t *testing.T) {
	p := createTestPersistence()
	service := NewChecklist(p, &captureBus{}, slog.Default())

	seedStory(t, p, models.NewWorkflowState())

	_, err := service.Merge(context.Background(), "story-1", map[string]any{
		"factChecked": true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidChecklistValue))
}

func TestChecklist_MergeIsIdempotent(t *testing.T) {
	p := createTestPersistence()
	bus := &captureBus{}
	service := NewChecklist(p, bus, slog.Default())

	seedStory(t, p, models.NewWorkflowState())

	patch := map[string]any{"rightsCleared": true, "attributionPresent": true}

	first, err := service.Merge(context.Background(), "story-1", patch)
	require.NoError(t, err)

	second, err := service.Merge(context.Background(), "story-1", patch)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// only the first merge changed anything, so only it emitted an event
	require.Len(t, bus.published, 1)
	event, ok := bus.published[0].(events.ChecklistUpdated)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"rightsCleared", "attributionPresent"}, event.Changed)
}

func TestChecklist_Get(t *testing.T) {
	p := createTestPersistence()
	service := NewChecklist(p, &captureBus{}, slog.Default())

	state := models.NewWorkflowState()
	state.Checklist.DefamationScanOk = true

	seedStory(t, p, state)

	checklist, err := service.Get(context.Background(), "story-1")
	require.NoError(t, err)
	assert.True(t, checklist.DefamationScanOk)
	assert.False(t, checklist.PTICompliance)
}

func TestChecklist_StoryNotFound(t *testing.T) {
	p := createTestPersistence()
	service := NewChecklist(p, &captureBus{}, slog.Default())

	_, err := service.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsStoryNotFound(err))

	_, err = service.Merge(context.Background(), "missing", map[string]any{"ptiCompliance": true})
	require.Error(t, err)
	assert.True(t, persistence.IsStoryNotFound(err))
}
