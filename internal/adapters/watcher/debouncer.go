// Package watcher implements file system watching for module specifier cache invalidation.
package watcher

import (
	"slices"
	"strings"
	"sync"
	"time"
	"unique"

	"go.trai.ch/modspec/internal/core/domain"
)

// Debouncer coalesces rapid file system events into batched changes.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]domain.FileChange
	timer    *time.Timer
	window   time.Duration
	callback func(changes []domain.FileChange)
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(changes []domain.FileChange)) *Debouncer {
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]domain.FileChange),
		window:   window,
		callback: callback,
	}
}

// Add adds a change to the pending batch. Repeated changes to one path collapse
// into one: deletion outranks creation, which outranks modification, and a path
// seen as a link stays a link.
func (d *Debouncer) Add(change domain.FileChange) {
	d.mu.Lock()
	defer d.mu.Unlock()

	handle := unique.Make(change.Path)
	if prev, ok := d.pending[handle]; ok {
		change.Kind = stronger(change.Kind, prev.Kind)
		change.Link = change.Link || prev.Link
	}
	d.pending[handle] = change

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

var kindRank = map[domain.ChangeKind]int{
	domain.ChangeModified: 0,
	domain.ChangeCreated:  1,
	domain.ChangeDeleted:  2,
}

func stronger(a, b domain.ChangeKind) domain.ChangeKind {
	if kindRank[b] > kindRank[a] {
		return b
	}
	return a
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()

	// Check if there's anything to process (protects against race with Flush).
	if len(d.pending) == 0 {
		d.timer = nil
		d.mu.Unlock()
		return
	}

	changes := d.drain()
	d.timer = nil
	d.mu.Unlock()

	if d.callback != nil {
		go d.callback(changes)
	}
}

// Flush immediately hands all pending changes to the callback and blocks until
// it returns.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired, let it complete rather than processing twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}

	changes := d.drain()
	d.mu.Unlock()

	if len(changes) > 0 && d.callback != nil {
		d.callback(changes)
	}
}

// drain empties the pending set into a slice sorted by path. The caller holds the lock.
func (d *Debouncer) drain() []domain.FileChange {
	changes := make([]domain.FileChange, 0, len(d.pending))
	for _, change := range d.pending {
		changes = append(changes, change)
	}
	d.pending = make(map[unique.Handle[string]]domain.FileChange)
	slices.SortFunc(changes, func(a, b domain.FileChange) int {
		return strings.Compare(a.Path, b.Path)
	})
	return changes
}
