package speccache

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/modspec/internal/core/ports"
	"go.trai.ch/modspec/internal/engine/invalidation"
)

// Stats summarizes the cache contents.
type Stats struct {
	Entries          int `json:"entries"`
	ManifestDirs     int `json:"manifestDirs"`
	NodeModulesRoots int `json:"nodeModulesRoots"`
	Symlinks         int `json:"symlinks"`
}

// Cache is the get/set/clear surface used by resolution callers and by the
// project's change pipeline. All methods are safe to call from the watcher's
// debounce goroutine and request handlers alike; calls are serialized.
type Cache struct {
	mu       sync.Mutex
	store    *Store
	policy   *invalidation.Policy
	logger   ports.Logger
	observer ports.CacheObserver
	onWatch  func(dirs []string)
	disposed bool

	// generation advances on every clear that removes entries or scope.
	generation uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithObserver reports hits, misses and invalidations to o.
func WithObserver(o ports.CacheObserver) Option {
	return func(c *Cache) {
		c.observer = o
	}
}

// WithWatchHook registers fn to receive directories that become part of the
// invalidation scope, so the watcher can start observing them.
func WithWatchHook(fn func(dirs []string)) Option {
	return func(c *Cache) {
		c.onWatch = fn
	}
}

// WithPartialManifestInvalidation drops only the entries tied to a changed non-root
// package.json instead of clearing the whole cache.
func WithPartialManifestInvalidation(enabled bool) Option {
	return func(c *Cache) {
		c.policy = invalidation.NewPolicy(c.policy.Root(), invalidation.WithPartialManifests(enabled))
	}
}

// WithSettings sets the compiler settings the first entries are computed under.
func WithSettings(settings domain.CompilerSettings) Option {
	return func(c *Cache) {
		c.store.Scope().SetSettings(settings.Fingerprint())
	}
}

// New creates the cache for the project rooted at root.
func New(root string, probe ports.FileProbe, logger ports.Logger, opts ...Option) *Cache {
	c := &Cache{
		store:    NewStore(root, probe),
		policy:   invalidation.NewPolicy(root),
		logger:   logger,
		observer: nopObserver{},
	}
	c.store.Scope().SetSettings(domain.CompilerSettings{}.Fingerprint())
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry cached for importing to from within from.
func (c *Cache) Get(from, to string, prefs domain.Preferences, mode domain.ResolutionMode) (*domain.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.store.Get(domain.NewCacheKey(from, to, prefs, mode))
	if ok {
		c.observer.Hit(context.Background())
	} else {
		c.observer.Miss(context.Background())
	}
	return entry, ok
}

// Set stores entry for importing to from within from.
func (c *Cache) Set(from, to string, prefs domain.Preferences, mode domain.ResolutionMode, entry *domain.CacheEntry) {
	c.watch(c.mutate(func() []string {
		return c.store.Set(domain.NewCacheKey(from, to, prefs, mode), entry)
	}))
}

// Generation returns a token that changes whenever entries are invalidated.
// Callers computing an entry outside the cache take it before reading the
// inputs and hand it to SetIfCurrent.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// SetIfCurrent stores entry unless an invalidation happened since generation was
// taken. It reports whether the entry was stored.
func (c *Cache) SetIfCurrent(
	generation uint64,
	from, to string,
	prefs domain.Preferences,
	mode domain.ResolutionMode,
	entry *domain.CacheEntry,
) bool {
	stored := false
	c.watch(c.mutate(func() []string {
		if c.generation != generation {
			return nil
		}
		stored = true
		return c.store.Set(domain.NewCacheKey(from, to, prefs, mode), entry)
	}))
	return stored
}

// SetModulePaths stores only the module paths for an import.
func (c *Cache) SetModulePaths(from, to string, prefs domain.Preferences, mode domain.ResolutionMode, paths []domain.ModulePath) {
	c.watch(c.mutate(func() []string {
		return c.store.SetModulePaths(domain.NewCacheKey(from, to, prefs, mode), paths)
	}))
}

// SetBlockedByPackageJSONDependencies records whether an import needs an undeclared dependency.
func (c *Cache) SetBlockedByPackageJSONDependencies(from, to string, prefs domain.Preferences, mode domain.ResolutionMode, blocked bool) {
	c.watch(c.mutate(func() []string {
		return c.store.SetBlockedByPackageJSONDependencies(domain.NewCacheKey(from, to, prefs, mode), blocked)
	}))
}

// Count returns the number of live entries.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Count()
}

// Clear removes every entry and resets the invalidation scope.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(domain.FullClear(domain.ReasonExplicit, ""))
}

// HandleFileChanges applies one debounced batch of filesystem changes and returns
// the decision taken.
func (c *Cache) HandleFileChanges(changes []domain.FileChange) domain.Decision {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || len(changes) == 0 {
		return domain.NoInvalidation
	}
	decision := c.policy.ClassifyBatch(c.store.Scope(), changes)
	c.apply(decision)
	return decision
}

// UpdatePreferences records the preferences now in effect and reports whether their
// fingerprint changed. Nothing is cleared: entries stored under another fingerprint
// are simply never looked up again by requests carrying the new preferences.
func (c *Cache) UpdatePreferences(prefs domain.Preferences) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := prefs.Fingerprint()
	prev, ok := c.store.Scope().Preferences()
	c.store.Scope().SetPreferences(next)
	return ok && prev != next
}

// UpdateSettings applies new compiler settings, clearing the cache when any
// resolution-affecting option changed.
func (c *Cache) UpdateSettings(settings domain.CompilerSettings) domain.Decision {
	c.mu.Lock()
	defer c.mu.Unlock()

	decision := c.policy.ClassifySettings(c.store.Scope(), settings)
	c.apply(decision)
	c.store.Scope().SetSettings(settings.Fingerprint())
	return decision
}

// WatchedDirectories returns every directory the cached entries depend on.
func (c *Cache) WatchedDirectories() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.WatchedDirectories()
}

// Stats returns a summary of the cache contents.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	scope := c.store.Scope()
	return Stats{
		Entries:          c.store.Count(),
		ManifestDirs:     len(scope.ManifestDirs()),
		NodeModulesRoots: len(scope.NodeModulesRoots()),
		Symlinks:         len(scope.Symlinks()),
	}
}

// Dispose clears the cache and detaches the watch hook. Later writes are ignored.
func (c *Cache) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Clear()
	c.onWatch = nil
	c.disposed = true
}

// mutate runs fn under the lock unless the cache is disposed.
func (c *Cache) mutate(fn func() []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return nil
	}
	return fn()
}

// watch hands newly scoped directories to the hook outside the lock.
func (c *Cache) watch(dirs []string) {
	if len(dirs) == 0 {
		return
	}
	c.mu.Lock()
	hook := c.onWatch
	c.mu.Unlock()
	if hook != nil {
		hook(slices.Clone(dirs))
	}
}

// apply carries out a decision. The caller holds the lock.
func (c *Cache) apply(decision domain.Decision) {
	switch decision.Action {
	case domain.ActionNone:
		return
	case domain.ActionPartial:
		stale := make(map[string]struct{}, len(decision.StaleManifestDirs))
		for _, dir := range decision.StaleManifestDirs {
			stale[dir] = struct{}{}
		}
		var leaves []string
		for _, dir := range c.store.Scope().ManifestDirs() {
			if _, ok := stale[dir]; !ok {
				leaves = append(leaves, dir)
			}
		}
		removed := c.store.ClearAllExceptLeafManifestDirs(leaves)
		c.generation++
		c.report(decision, removed)
	case domain.ActionFullClear:
		scope := c.store.Scope()
		settings, hasSettings := scope.Settings()
		prefs, hasPrefs := scope.Preferences()

		removed := c.store.Count()
		c.store.Clear()
		c.generation++

		// The scope forgets everything; the settings and preferences in effect still apply.
		if hasSettings {
			scope.SetSettings(settings)
		}
		if hasPrefs {
			scope.SetPreferences(prefs)
		}
		c.report(decision, removed)
	}
}

func (c *Cache) report(decision domain.Decision, removed int) {
	c.observer.Invalidated(context.Background(), decision.Reason, removed)
	if removed == 0 || c.logger == nil {
		return
	}
	msg := fmt.Sprintf("invalidated %d module specifier cache entries (reason: %s)", removed, decision.Reason)
	if decision.Path != "" {
		msg += " after change to " + decision.Path
	}
	c.logger.Info(msg)
}

type nopObserver struct{}

func (nopObserver) Hit(context.Context)                                         {}
func (nopObserver) Miss(context.Context)                                        {}
func (nopObserver) Invalidated(context.Context, domain.InvalidationReason, int) {}
