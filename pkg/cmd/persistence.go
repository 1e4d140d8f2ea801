// Package cmd provides shared construction helpers for the newsdesk binaries.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/create-newspulse/newsdesk/pkg/persistence"
	"github.com/create-newspulse/newsdesk/pkg/persistence/file"
	"github.com/create-newspulse/newsdesk/pkg/persistence/postgresql"
)

// NewPersistence creates a persistence layer based on the database URL scheme.
// postgres:// and postgresql:// URLs get the PostgreSQL backend, anything else
// is treated as a directory path for the file backend.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	switch scheme {
	case "postgres", "postgresql":
		return "postgresql"
	default:
		return "file"
	}
}
