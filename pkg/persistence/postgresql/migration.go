package postgresql

// migrations returns the schema in version order. Approvals are normalized
// into their own table so the ledger is queryable without loading stories and
// is append-only at the storage layer.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS stories (
				id UUID PRIMARY KEY,
				title TEXT NOT NULL,
				body TEXT NOT NULL DEFAULT '',
				category TEXT NOT NULL DEFAULT '',
				tags JSONB NOT NULL DEFAULT '[]'::jsonb,
				author TEXT NOT NULL,
				status TEXT NOT NULL,
				stage TEXT NOT NULL,
				scheduled_at TIMESTAMP WITH TIME ZONE,
				checklist JSONB NOT NULL DEFAULT '{}'::jsonb,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_stories_status
				ON stories (status) WHERE deleted_at IS NULL;

			CREATE INDEX IF NOT EXISTS idx_stories_author
				ON stories (author) WHERE deleted_at IS NULL;

			CREATE INDEX IF NOT EXISTS idx_stories_due
				ON stories (scheduled_at) WHERE status = 'scheduled' AND deleted_at IS NULL;

			CREATE TABLE IF NOT EXISTS story_approvals (
				story_id UUID NOT NULL REFERENCES stories (id) ON DELETE CASCADE,
				seq INTEGER NOT NULL,
				approved_by TEXT NOT NULL,
				role TEXT NOT NULL,
				approved_at TIMESTAMP WITH TIME ZONE NOT NULL,
				note TEXT NOT NULL DEFAULT '',
				PRIMARY KEY (story_id, seq)
			);
		`,
	}
}
