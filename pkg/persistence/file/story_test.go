package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/create-newspulse/newsdesk/pkg/models"
	"github.com/create-newspulse/newsdesk/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPersistence(t *testing.T) {
	p := NewPersistence("/tmp/newsdesk-test")
	fp := p.(*Persistence)
	assert.Equal(t, "/tmp/newsdesk-test", fp.root)

	p = NewPersistence("file:///tmp/newsdesk-test")
	fp = p.(*Persistence)
	assert.Equal(t, "/tmp/newsdesk-test", fp.root)
}

func TestPersistence_Close(t *testing.T) {
	p := NewPersistence(t.TempDir())
	assert.NoError(t, p.Close(t.Context()))
}

func testStory(id, title string) *models.Story {
	return &models.Story{
		ID:       id,
		Title:    title,
		Body:     "Body of " + title,
		Author:   "u-reporter",
		Workflow: models.NewWorkflowState(),
	}
}

func TestStoryRepository_SaveAndGet(t *testing.T) {
	testDir := t.TempDir()
	repo := NewStoryRepository(testDir)

	story := testStory("s-1", "Council approves park budget")
	require.NoError(t, repo.Save(t.Context(), story))

	assert.FileExists(t, filepath.Join(testDir, "stories", "s-1.json"))
	assert.False(t, story.CreatedAt.IsZero())
	assert.False(t, story.UpdatedAt.IsZero())

	fetched, err := repo.GetByID(t.Context(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Council approves park budget", fetched.Title)
	assert.Equal(t, models.StoryStatusDraft, fetched.Workflow.Status)
	assert.Equal(t, models.StageDraft, fetched.Workflow.Stage)
}

func TestStoryRepository_GetByID_NotFound(t *testing.T) {
	repo := NewStoryRepository(t.TempDir())

	_, err := repo.GetByID(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsStoryNotFound(err))
}

func TestStoryRepository_RejectsEscapingIDs(t *testing.T) {
	testDir := t.TempDir()
	repo := NewStoryRepository(filepath.Join(testDir, "data"))

	require.NoError(t, repo.Save(t.Context(), testStory("s-1", "Kept inside the root")))

	for _, id := range []string{"../s-1", "..", "a/b", `a\b`, "stories/../../s-1", ""} {
		_, err := repo.GetByID(t.Context(), id)
		require.Error(t, err, "id %q", id)
		assert.True(t, persistence.IsStoryNotFound(err), "id %q", id)

		err = repo.Save(t.Context(), testStory(id, "Escapee"))
		require.Error(t, err, "id %q", id)
	}

	// Nothing leaked outside data/stories.
	entries, err := os.ReadDir(testDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "data", entries[0].Name())
}

func TestStoryRepository_SoftDelete(t *testing.T) {
	testDir := t.TempDir()
	repo := NewStoryRepository(testDir)

	require.NoError(t, repo.Save(t.Context(), testStory("s-1", "Short-lived story")))
	require.NoError(t, repo.Delete(t.Context(), "s-1"))

	// The document stays on disk but is invisible to reads.
	assert.FileExists(t, filepath.Join(testDir, "stories", "s-1.json"))

	_, err := repo.GetByID(t.Context(), "s-1")
	require.Error(t, err)
	assert.True(t, persistence.IsStoryNotFound(err))

	result, err := repo.List(t.Context(), persistence.ListStoriesOptions{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Stories)

	err = repo.Delete(t.Context(), "s-1")
	require.Error(t, err)
	assert.True(t, persistence.IsStoryNotFound(err))
}

func TestStoryRepository_List(t *testing.T) {
	repo := NewStoryRepository(t.TempDir())

	a := testStory("s-a", "Alpha story")
	a.Author = "u-alice"
	b := testStory("s-b", "Beta story")
	b.Author = "u-bob"
	b.Workflow.Status = models.StoryStatusReview
	b.Workflow.Stage = models.StageCopyEdit

	require.NoError(t, repo.Save(t.Context(), a))
	require.NoError(t, repo.Save(t.Context(), b))

	t.Run("filter by author", func(t *testing.T) {
		result, err := repo.List(t.Context(), persistence.ListStoriesOptions{Author: "u-alice"})
		require.NoError(t, err)
		require.Len(t, result.Stories, 1)
		assert.Equal(t, "s-a", result.Stories[0].ID)
	})

	t.Run("filter by status", func(t *testing.T) {
		status := models.StoryStatusReview
		result, err := repo.List(t.Context(), persistence.ListStoriesOptions{Status: &status})
		require.NoError(t, err)
		require.Len(t, result.Stories, 1)
		assert.Equal(t, "s-b", result.Stories[0].ID)
	})

	t.Run("sort by title ascending", func(t *testing.T) {
		result, err := repo.List(t.Context(), persistence.ListStoriesOptions{
			SortBy:    "title",
			SortOrder: "asc",
		})
		require.NoError(t, err)
		require.Len(t, result.Stories, 2)
		assert.Equal(t, "Alpha story", result.Stories[0].Title)
		assert.Equal(t, int64(2), result.TotalCount)
	})

	t.Run("pagination", func(t *testing.T) {
		result, err := repo.List(t.Context(), persistence.ListStoriesOptions{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, result.Stories, 1)
		assert.True(t, result.HasNextPage)

		result, err = repo.List(t.Context(), persistence.ListStoriesOptions{Limit: 1, Offset: 5})
		require.NoError(t, err)
		assert.Empty(t, result.Stories)
		assert.False(t, result.HasNextPage)
	})

	t.Run("rejects unknown sort field", func(t *testing.T) {
		_, err := repo.List(t.Context(), persistence.ListStoriesOptions{SortBy: "approvals"})
		require.Error(t, err)
	})
}

func TestStoryRepository_ListDueScheduled(t *testing.T) {
	repo := NewStoryRepository(t.TempDir())
	now := time.Now().UTC()

	due := testStory("s-due", "Due story")
	due.Workflow.Status = models.StoryStatusScheduled
	due.Workflow.Stage = models.StageScheduled
	past := now.Add(-time.Minute)
	due.Workflow.ScheduledAt = &past

	future := testStory("s-future", "Future story")
	future.Workflow.Status = models.StoryStatusScheduled
	future.Workflow.Stage = models.StageScheduled
	later := now.Add(time.Hour)
	future.Workflow.ScheduledAt = &later

	draft := testStory("s-draft", "Draft story")

	for _, story := range []*models.Story{due, future, draft} {
		require.NoError(t, repo.Save(t.Context(), story))
	}

	stories, err := repo.ListDueScheduled(t.Context(), now)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "s-due", stories[0].ID)
}

func TestStoryRepository_Approvals(t *testing.T) {
	repo := NewStoryRepository(t.TempDir())

	story := testStory("s-1", "Approved story")
	story.Workflow.Approvals = []models.ApprovalRecord{
		{By: "u-eic", Role: models.RoleManagingEditor, At: time.Now().UTC(), Note: "ready"},
	}
	require.NoError(t, repo.Save(t.Context(), story))

	approvals, err := repo.Approvals(t.Context(), "s-1")
	require.NoError(t, err)
	require.Len(t, approvals, 1)
	assert.Equal(t, "u-eic", approvals[0].By)
}
