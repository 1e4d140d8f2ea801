package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/create-newspulse/newsdesk/pkg/models"
	"github.com/create-newspulse/newsdesk/pkg/persistence"
	"github.com/create-newspulse/newsdesk/pkg/persistence/postgresql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	// Drop tables in reverse dependency order (children first, parents last)
	for _, table := range []string{"story_approvals", "stories", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("newsdesk_test"),
			postgres.WithUsername("newsdesk"),
			postgres.WithPassword("newsdesk"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = p.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return p, ctx, databaseURL
}

func testStory(title string) *models.Story {
	now := time.Now().UTC().Truncate(time.Microsecond)

	return &models.Story{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      "Body of " + title,
		Category:  "local",
		Tags:      []string{"test"},
		Author:    "u-reporter",
		Workflow:  models.NewWorkflowState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	var exists bool

	err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = 'stories')`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "stories table should exist")

	err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = 'story_approvals')`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "story_approvals table should exist")

	var version int

	err = db.QueryRowContext(ctx, "SELECT version FROM schema_migrations WHERE version = 1").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewPersistence_HealthCheck(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	err := p.HealthCheck(ctx)
	assert.NoError(t, err)
}

func TestStoryRepository_SaveAndRetrieve(t *testing.T) {
	p, ctx, _ := setupTestDB(t)
	repo := p.StoryRepository()

	story := testStory("Council approves park budget")
	require.NoError(t, repo.Save(ctx, story))

	fetched, err := repo.GetByID(ctx, story.ID)
	require.NoError(t, err)

	assert.Equal(t, story.ID, fetched.ID)
	assert.Equal(t, story.Title, fetched.Title)
	assert.Equal(t, story.Tags, fetched.Tags)
	assert.Equal(t, models.StoryStatusDraft, fetched.Workflow.Status)
	assert.Equal(t, models.StageDraft, fetched.Workflow.Stage)
	assert.Empty(t, fetched.Workflow.Approvals)
}

func TestStoryRepository_GetByID_NotFound(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	_, err := p.StoryRepository().GetByID(ctx, uuid.New().String())
	require.Error(t, err)
	assert.True(t, persistence.IsStoryNotFound(err))
}

func TestStoryRepository_SoftDelete(t *testing.T) {
	p, ctx, _ := setupTestDB(t)
	repo := p.StoryRepository()

	story := testStory("Short-lived story")
	require.NoError(t, repo.Save(ctx, story))
	require.NoError(t, repo.Delete(ctx, story.ID))

	_, err := repo.GetByID(ctx, story.ID)
	require.Error(t, err)
	assert.True(t, persistence.IsStoryNotFound(err))

	result, err := repo.List(ctx, persistence.ListStoriesOptions{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Stories)
}

func TestStoryRepository_ApprovalsAreAppendOnly(t *testing.T) {
	p, ctx, _ := setupTestDB(t)
	repo := p.StoryRepository()

	story := testStory("Approved story")
	first := models.ApprovalRecord{
		By:   "u-eic",
		Role: models.RoleManagingEditor,
		At:   time.Now().UTC().Truncate(time.Microsecond),
		Note: "ready",
	}
	story.Workflow.Approvals = []models.ApprovalRecord{first}
	require.NoError(t, repo.Save(ctx, story))

	// Saving again with the same trail must not duplicate rows.
	require.NoError(t, repo.Save(ctx, story))

	approvals, err := repo.Approvals(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, approvals, 1)
	assert.Equal(t, "u-eic", approvals[0].By)
	assert.Equal(t, "ready", approvals[0].Note)

	second := models.ApprovalRecord{
		By:   "u-founder",
		Role: models.RoleFounder,
		At:   time.Now().UTC().Truncate(time.Microsecond),
	}
	story.Workflow.Approvals = append(story.Workflow.Approvals, second)
	require.NoError(t, repo.Save(ctx, story))

	approvals, err = repo.Approvals(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, approvals, 2)
	assert.Equal(t, "u-eic", approvals[0].By)
	assert.Equal(t, "u-founder", approvals[1].By)
}

func TestStoryRepository_List_FilterAndSort(t *testing.T) {
	p, ctx, _ := setupTestDB(t)
	repo := p.StoryRepository()

	a := testStory("Alpha story")
	a.Author = "u-alice"
	b := testStory("Beta story")
	b.Author = "u-bob"
	b.Workflow.Status = models.StoryStatusReview
	b.Workflow.Stage = models.StageCopyEdit

	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	status := models.StoryStatusReview

	result, err := repo.List(ctx, persistence.ListStoriesOptions{
		Limit:  10,
		Status: &status,
	})
	require.NoError(t, err)
	require.Len(t, result.Stories, 1)
	assert.Equal(t, b.ID, result.Stories[0].ID)

	result, err = repo.List(ctx, persistence.ListStoriesOptions{
		Limit:  10,
		Author: "u-alice",
	})
	require.NoError(t, err)
	require.Len(t, result.Stories, 1)
	assert.Equal(t, a.ID, result.Stories[0].ID)

	result, err = repo.List(ctx, persistence.ListStoriesOptions{
		Limit:     10,
		SortBy:    "title",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	require.Len(t, result.Stories, 2)
	assert.Equal(t, "Alpha story", result.Stories[0].Title)
	assert.Equal(t, int64(2), result.TotalCount)
}

func TestStoryRepository_ListDueScheduled(t *testing.T) {
	p, ctx, _ := setupTestDB(t)
	repo := p.StoryRepository()

	now := time.Now().UTC()

	due := testStory("Due story")
	due.Workflow.Status = models.StoryStatusScheduled
	due.Workflow.Stage = models.StageScheduled
	past := now.Add(-time.Minute)
	due.Workflow.ScheduledAt = &past

	future := testStory("Future story")
	future.Workflow.Status = models.StoryStatusScheduled
	future.Workflow.Stage = models.StageScheduled
	later := now.Add(time.Hour)
	future.Workflow.ScheduledAt = &later

	draft := testStory("Draft story")

	for _, story := range []*models.Story{due, future, draft} {
		require.NoError(t, repo.Save(ctx, story))
	}

	stories, err := repo.ListDueScheduled(ctx, now)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, due.ID, stories[0].ID)
}

func TestStoryRepository_ChecklistRoundTrip(t *testing.T) {
	p, ctx, _ := setupTestDB(t)
	repo := p.StoryRepository()

	story := testStory("Compliance story")
	story.Workflow.Checklist.RightsCleared = true
	story.Workflow.Checklist.DefamationScanOk = true
	require.NoError(t, repo.Save(ctx, story))

	fetched, err := repo.GetByID(ctx, story.ID)
	require.NoError(t, err)

	assert.True(t, fetched.Workflow.Checklist.RightsCleared)
	assert.True(t, fetched.Workflow.Checklist.DefamationScanOk)
	assert.False(t, fetched.Workflow.Checklist.PTICompliance)
	assert.False(t, fetched.Workflow.Checklist.AttributionPresent)
}
