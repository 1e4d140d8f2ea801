package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/create-newspulse/newsdesk/pkg/models"
	"github.com/create-newspulse/newsdesk/pkg/persistence"
)

// StoryRepository handles story-related database operations.
type StoryRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStoryRepository creates a new story repository.
func NewStoryRepository(db *sql.DB, logger *slog.Logger) *StoryRepository {
	return &StoryRepository{db: db, logger: logger}
}

const storyColumns = `
	id
  , title
  , body
  , category
  , tags
  , author
  , status
  , stage
  , scheduled_at
  , checklist
  , created_at
  , updated_at
  , deleted_at
`

// List returns paginated and filtered stories.
func (r *StoryRepository) List(ctx context.Context, opts persistence.ListStoriesOptions) (*persistence.StoryListResult, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	sortBy, err := sortColumn(opts.SortBy)
	if err != nil {
		return nil, err
	}

	sortOrder := "DESC"
	if opts.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	where := "WHERE deleted_at IS NULL"
	args := []any{}

	if opts.Author != "" {
		args = append(args, opts.Author)
		where += fmt.Sprintf(" AND author = $%d", len(args))
	}

	if opts.Status != nil {
		args = append(args, string(*opts.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var totalCount int64

	err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stories "+where, args...).Scan(&totalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count stories: %w", err)
	}

	args = append(args, opts.Limit, opts.Offset)
	query := fmt.Sprintf("SELECT %s FROM stories %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		storyColumns, where, sortBy, sortOrder, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	stories := make([]*models.Story, 0)

	for rows.Next() {
		story, err := r.scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}

		err = r.loadApprovals(ctx, story)
		if err != nil {
			return nil, err
		}

		stories = append(stories, story)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating stories: %w", err)
	}

	return &persistence.StoryListResult{
		Stories:     stories,
		TotalCount:  totalCount,
		HasNextPage: int64(opts.Offset+len(stories)) < totalCount,
	}, nil
}

func sortColumn(sortBy string) (string, error) {
	switch sortBy {
	case "", "created_at":
		return "created_at", nil
	case "updated_at", "title":
		return sortBy, nil
	default:
		return "", fmt.Errorf("invalid sort field: %s", sortBy)
	}
}

// GetByID returns a story with its approval trail.
func (r *StoryRepository) GetByID(ctx context.Context, id string) (*models.Story, error) {
	query := fmt.Sprintf("SELECT %s FROM stories WHERE id = $1 AND deleted_at IS NULL", storyColumns)

	story, err := r.scanStory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewStoryError("GetByID", id, persistence.ErrStoryNotFound)
		}

		return nil, fmt.Errorf("failed to scan story: %w", err)
	}

	err = r.loadApprovals(ctx, story)
	if err != nil {
		return nil, err
	}

	return story, nil
}

// Save upserts the story row and appends any new approval records. Rows
// already in story_approvals are never updated or deleted; only entries
// beyond the stored ledger length are inserted.
func (r *StoryRepository) Save(ctx context.Context, story *models.Story) error {
	now := time.Now().UTC()

	if story.CreatedAt.IsZero() {
		story.CreatedAt = now
	}

	story.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	tagsJSON, err := json.Marshal(story.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	checklistJSON, err := json.Marshal(story.Workflow.Checklist)
	if err != nil {
		return fmt.Errorf("failed to marshal checklist: %w", err)
	}

	storyQuery := `
		INSERT INTO stories (id, title, body, category, tags, author,
			status, stage, scheduled_at, checklist, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags,
			author = EXCLUDED.author,
			status = EXCLUDED.status,
			stage = EXCLUDED.stage,
			scheduled_at = EXCLUDED.scheduled_at,
			checklist = EXCLUDED.checklist,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
	`

	_, err = tx.ExecContext(ctx, storyQuery,
		story.ID,
		story.Title,
		story.Body,
		story.Category,
		tagsJSON,
		story.Author,
		story.Workflow.Status,
		story.Workflow.Stage,
		story.Workflow.ScheduledAt,
		checklistJSON,
		story.CreatedAt,
		story.UpdatedAt,
		story.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save story: %w", err)
	}

	var stored int

	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM story_approvals WHERE story_id = $1", story.ID).Scan(&stored)
	if err != nil {
		return fmt.Errorf("failed to count approvals: %w", err)
	}

	for seq := stored; seq < len(story.Workflow.Approvals); seq++ {
		record := story.Workflow.Approvals[seq]

		_, err = tx.ExecContext(ctx, `
			INSERT INTO story_approvals (story_id, seq, approved_by, role, approved_at, note)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, story.ID, seq, record.By, record.Role, record.At, record.Note)
		if err != nil {
			return fmt.Errorf("failed to append approval %d: %w", seq, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit story save: %w", err)
	}

	return nil
}

// Delete soft deletes a story by setting the deleted_at timestamp. The
// approval ledger stays in place for audit.
func (r *StoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE stories SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL",
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.NewStoryError("Delete", id, persistence.ErrStoryNotFound)
	}

	return nil
}

// Approvals replays a story's approval trail in insertion order.
func (r *StoryRepository) Approvals(ctx context.Context, id string) ([]models.ApprovalRecord, error) {
	var exists bool

	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM stories WHERE id = $1 AND deleted_at IS NULL)", id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check story existence: %w", err)
	}

	if !exists {
		return nil, persistence.NewStoryError("Approvals", id, persistence.ErrStoryNotFound)
	}

	return r.queryApprovals(ctx, id)
}

func (r *StoryRepository) queryApprovals(ctx context.Context, id string) ([]models.ApprovalRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT approved_by, role, approved_at, note
		FROM story_approvals
		WHERE story_id = $1
		ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query approvals: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	records := make([]models.ApprovalRecord, 0)

	for rows.Next() {
		var record models.ApprovalRecord

		err = rows.Scan(&record.By, &record.Role, &record.At, &record.Note)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}

		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating approvals: %w", err)
	}

	return records, nil
}

// ListDueScheduled returns stories whose scheduled publish time has elapsed.
func (r *StoryRepository) ListDueScheduled(ctx context.Context, now time.Time) ([]*models.Story, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM stories
		WHERE status = $1 AND scheduled_at <= $2 AND deleted_at IS NULL
		ORDER BY scheduled_at
	`, storyColumns)

	rows, err := r.db.QueryContext(ctx, query, models.StoryStatusScheduled, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due stories: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	stories := make([]*models.Story, 0)

	for rows.Next() {
		story, err := r.scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}

		err = r.loadApprovals(ctx, story)
		if err != nil {
			return nil, err
		}

		stories = append(stories, story)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating due stories: %w", err)
	}

	return stories, nil
}

func (r *StoryRepository) loadApprovals(ctx context.Context, story *models.Story) error {
	approvals, err := r.queryApprovals(ctx, story.ID)
	if err != nil {
		return err
	}

	story.Workflow.Approvals = approvals

	return nil
}

func (r *StoryRepository) scanStory(scanner interface {
	Scan(dest ...any) error
},
) (*models.Story, error) {
	var (
		story         models.Story
		tagsJSON      []byte
		checklistJSON []byte
		scheduledAt   sql.NullTime
		deletedAt     sql.NullTime
	)

	err := scanner.Scan(
		&story.ID,
		&story.Title,
		&story.Body,
		&story.Category,
		&tagsJSON,
		&story.Author,
		&story.Workflow.Status,
		&story.Workflow.Stage,
		&scheduledAt,
		&checklistJSON,
		&story.CreatedAt,
		&story.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if scheduledAt.Valid {
		at := scheduledAt.Time
		story.Workflow.ScheduledAt = &at
	}

	if deletedAt.Valid {
		at := deletedAt.Time
		story.DeletedAt = &at
	}

	err = json.Unmarshal(tagsJSON, &story.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}

	err = json.Unmarshal(checklistJSON, &story.Workflow.Checklist)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal checklist: %w", err)
	}

	return &story, nil
}
