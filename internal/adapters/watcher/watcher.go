package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/modspec/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// shouldSkipDirectories are directories not descended into when walking a tree.
// Package directories are watched only where cached entries point into them.
var shouldSkipDirectories = map[string]bool{
	".git":                    true,
	".jj":                     true,
	domain.NodeModulesDirName: true,
}

const eventChannelBuffer = 100

// Watcher implements file system watching using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	events    chan domain.FileChange

	mu    sync.Mutex
	links map[string]struct{}
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}
	return &Watcher{
		fsWatcher: watcher,
		logger:    logger,
		events:    make(chan domain.FileChange, eventChannelBuffer),
		links:     make(map[string]struct{}),
	}, nil
}

// Start begins watching the given root directory recursively.
func (w *Watcher) Start(ctx context.Context, root string) error {
	for dir := range w.watchRecursively(root) {
		if err := w.add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "root", root)
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Add watches one additional directory without descending into it.
func (w *Watcher) Add(dir string) error {
	if err := w.add(dir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatchAddFailed.Error()), "path", dir)
	}
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system changes.
func (w *Watcher) Events() iter.Seq[domain.FileChange] {
	return func(yield func(domain.FileChange) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// add watches dir and remembers the links among its entries, so their removal
// can be reported as a link change after they are gone.
func (w *Watcher) add(dir string) error {
	if err := w.fsWatcher.Add(dir); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil //nolint:nilerr // the directory is watched; links are best effort
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range entries {
		if e.Type()&fs.ModeSymlink != 0 {
			w.links[filepath.Join(dir, e.Name())] = struct{}{}
		}
	}
	return nil
}

// watchRecursively walks the directory tree and yields all directories.
func (w *Watcher) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Continue walking even if there's an error accessing a directory.
				return nil //nolint:nilerr // This is intentional - we want to skip problematic directories
			}
			if d.IsDir() {
				if path != root && w.shouldSkip(d.Name()) {
					return fs.SkipDir
				}
				if !yield(path) {
					return filepath.SkipAll
				}
			}
			return nil
		})
	}
}

// shouldSkip returns true if the directory should be skipped.
func (w *Watcher) shouldSkip(name string) bool {
	return shouldSkipDirectories[name]
}

// processEvents converts raw fsnotify events to domain.FileChange values.
//
//nolint:cyclop // This function is complex due to multiple event types and error handling
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			change, ok := w.convertEvent(event)
			if !ok {
				continue
			}

			select {
			case w.events <- change:
			case <-ctx.Done():
				return
			}

			// New directories are watched so changes beneath them are seen.
			if change.Kind == domain.ChangeCreated && !change.Link {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.shouldSkip(info.Name()) {
					for dir := range w.watchRecursively(event.Name) {
						_ = w.add(dir)
					}
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("watcher: file system error: " + err.Error())
			}
		}
	}
}

// convertEvent converts an fsnotify event to a domain.FileChange.
// Chmod-only events carry no information for module resolution and are dropped.
func (w *Watcher) convertEvent(event fsnotify.Event) (domain.FileChange, bool) {
	path := filepath.Clean(event.Name)

	switch {
	case event.Op&fsnotify.Remove == fsnotify.Remove, event.Op&fsnotify.Rename == fsnotify.Rename:
		return domain.FileChange{Path: path, Kind: domain.ChangeDeleted, Link: w.forgetLink(path)}, true
	case event.Op&fsnotify.Create == fsnotify.Create:
		return domain.FileChange{Path: path, Kind: domain.ChangeCreated, Link: w.rememberLink(path)}, true
	case event.Op&fsnotify.Write == fsnotify.Write:
		return domain.FileChange{Path: path, Kind: domain.ChangeModified}, true
	}
	return domain.FileChange{}, false
}

// rememberLink records path when it is a symbolic link.
func (w *Watcher) rememberLink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.links[path] = struct{}{}
	return true
}

// forgetLink reports whether path was a known link and drops it.
func (w *Watcher) forgetLink(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.links[path]; !ok {
		return false
	}
	delete(w.links, path)
	return true
}
