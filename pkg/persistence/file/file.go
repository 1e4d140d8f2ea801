// Package file provides file-based persistence implementation for stories.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/create-newspulse/newsdesk/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root      string
	storyRepo *StoryRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:      cleanRoot,
		storyRepo: NewStoryRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// StoryRepository returns the story repository implementation for file persistence.
func (fp *Persistence) StoryRepository() persistence.StoryRepository {
	return fp.storyRepo
}
