package ports

import (
	"context"
	"iter"

	"go.trai.ch/modspec/internal/core/domain"
)

// Watcher defines the interface for watching file system changes.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching the given root directory recursively.
	Start(ctx context.Context, root string) error
	// Add watches one additional directory. Directories created beneath a watched
	// directory afterwards are picked up automatically.
	Add(dir string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns an iterator of file system changes.
	Events() iter.Seq[domain.FileChange]
}
