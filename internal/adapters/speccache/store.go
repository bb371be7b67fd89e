// Package speccache implements the per-project module specifier cache.
package speccache

import (
	"maps"
	"path/filepath"
	"slices"

	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/modspec/internal/core/ports"
)

// storedEntry is an entry together with the scope it was recorded under, so the
// scope can be rebuilt from survivors after a partial clear.
type storedEntry struct {
	entry            *domain.CacheEntry
	manifestDirs     []string
	nodeModulesRoots []string
	symlinks         map[string]string
}

// Store holds cached entries and the invalidation scope derived from them.
// It performs no locking; the Cache facade serializes access.
type Store struct {
	entries map[domain.CacheKey]*storedEntry
	scope   *domain.InvalidationScope
	probe   ports.FileProbe
	root    string
}

// NewStore creates an empty store for the project rooted at root.
func NewStore(root string, probe ports.FileProbe) *Store {
	return &Store{
		entries: make(map[domain.CacheKey]*storedEntry),
		scope:   domain.NewInvalidationScope(),
		probe:   probe,
		root:    filepath.Clean(root),
	}
}

// Scope exposes the invalidation scope for classification.
func (s *Store) Scope() *domain.InvalidationScope {
	return s.scope
}

// Get returns a copy of the entry stored under key.
func (s *Store) Get(key domain.CacheKey) (*domain.CacheEntry, bool) {
	stored, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return stored.entry.Clone(), true
}

// Set stores a copy of entry under key, replacing any prior entry, and records the
// directories and links the entry depends on. It returns the directories that became
// watched for the first time. A nil entry is stored as an empty one.
func (s *Store) Set(key domain.CacheKey, entry *domain.CacheEntry) []string {
	if entry == nil {
		entry = &domain.CacheEntry{}
	}
	stored := s.record(key, entry.Clone())
	s.entries[key] = stored
	s.scope.AddFingerprint(key.Fingerprint)
	return s.apply(stored)
}

// SetModulePaths stores module paths for key, keeping any specifiers already cached
// for the same paths.
func (s *Store) SetModulePaths(key domain.CacheKey, paths []domain.ModulePath) []string {
	next := &domain.CacheEntry{ModulePaths: slices.Clone(paths)}
	if prev, ok := s.entries[key]; ok {
		next.IsBlockedByPackageJSONDependencies = prev.entry.IsBlockedByPackageJSONDependencies
		if slices.Equal(prev.entry.ModulePaths, paths) {
			next.ModuleSpecifiers = slices.Clone(prev.entry.ModuleSpecifiers)
			next.Kind = prev.entry.Kind
		}
	}
	return s.Set(key, next)
}

// SetBlockedByPackageJSONDependencies replaces the entry under key with a copy
// carrying the blocked flag.
func (s *Store) SetBlockedByPackageJSONDependencies(key domain.CacheKey, blocked bool) []string {
	next := &domain.CacheEntry{}
	if prev, ok := s.entries[key]; ok {
		next = prev.entry.Clone()
	}
	next.IsBlockedByPackageJSONDependencies = blocked
	return s.Set(key, next)
}

// Count returns the number of live entries.
func (s *Store) Count() int {
	return len(s.entries)
}

// Clear removes every entry and resets the scope.
func (s *Store) Clear() {
	clear(s.entries)
	s.scope.Reset()
}

// ClearAllExceptLeafManifestDirs removes every entry that depends on a manifest
// directory outside leaves and rebuilds the scope from the survivors.
// It returns the number of removed entries.
func (s *Store) ClearAllExceptLeafManifestDirs(leaves []string) int {
	keep := make(map[string]struct{}, len(leaves))
	for _, dir := range leaves {
		keep[filepath.Clean(dir)] = struct{}{}
	}

	removed := 0
	for key, stored := range s.entries {
		for _, dir := range stored.manifestDirs {
			if _, ok := keep[dir]; !ok {
				delete(s.entries, key)
				removed++
				break
			}
		}
	}
	if removed == 0 {
		return 0
	}

	settings, hasSettings := s.scope.Settings()
	prefs, hasPrefs := s.scope.Preferences()
	s.scope.Reset()
	if hasSettings {
		s.scope.SetSettings(settings)
	}
	if hasPrefs {
		s.scope.SetPreferences(prefs)
	}
	for key, stored := range s.entries {
		s.scope.AddFingerprint(key.Fingerprint)
		s.apply(stored)
	}
	return removed
}

// WatchedDirectories returns every directory the scope depends on, sorted.
func (s *Store) WatchedDirectories() []string {
	set := make(map[string]struct{})
	for _, dir := range s.scope.ManifestDirs() {
		set[dir] = struct{}{}
	}
	for _, dir := range s.scope.NodeModulesRoots() {
		set[dir] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// record computes the scope an entry depends on.
func (s *Store) record(key domain.CacheKey, entry *domain.CacheEntry) *storedEntry {
	stored := &storedEntry{
		entry:    entry,
		symlinks: make(map[string]string),
	}
	manifestDirs := make(map[string]struct{})
	nodeModules := make(map[string]struct{})

	for _, dir := range s.dirsToManifest(key.From.Dir().String()) {
		manifestDirs[dir] = struct{}{}
	}

	targets := make([]string, 0, len(entry.ModulePaths)+1)
	for _, mp := range entry.ModulePaths {
		targets = append(targets, mp.Path)
	}
	if to := key.To.String(); to != "" && !slices.Contains(targets, to) {
		targets = append(targets, to)
	}

	for _, target := range targets {
		target = filepath.Clean(target)
		for _, dir := range s.dirsToManifest(filepath.Dir(target)) {
			manifestDirs[dir] = struct{}{}
		}
		roots := domain.NodeModulesAncestors(target)
		for _, root := range roots {
			nodeModules[root] = struct{}{}
		}
		s.recordLinks(target, roots, stored.symlinks)
	}

	stored.manifestDirs = slices.Sorted(maps.Keys(manifestDirs))
	stored.nodeModulesRoots = slices.Sorted(maps.Keys(nodeModules))
	return stored
}

// recordLinks probes target and the directories between it and its nearest
// node_modules root for symbolic links.
func (s *Store) recordLinks(target string, roots []string, links map[string]string) {
	if s.probe == nil {
		return
	}
	if dest, ok := s.probe.Readlink(target); ok {
		links[target] = dest
	}
	if len(roots) == 0 {
		return
	}
	for dir := filepath.Dir(target); dir != roots[0] && domain.Within(roots[0], dir); dir = filepath.Dir(dir) {
		if dest, ok := s.probe.Readlink(dir); ok {
			links[dir] = dest
		}
	}
}

// dirsToManifest lists every directory from start up to and including the nearest
// directory holding a package.json. Without a manifest the walk stops at the
// project root, or at the filesystem root for paths outside the project.
func (s *Store) dirsToManifest(start string) []string {
	start = filepath.Clean(start)
	manifestDir, found := "", false
	if s.probe != nil {
		manifestDir, found = s.probe.NearestManifestDir(start)
		manifestDir = filepath.Clean(manifestDir)
	}
	if found && !domain.Within(manifestDir, start) {
		found = false
	}

	var dirs []string
	for dir := start; ; {
		dirs = append(dirs, dir)
		if found && dir == manifestDir {
			return dirs
		}
		if !found && dir == s.root {
			return dirs
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dirs
		}
		dir = parent
	}
}

// apply adds a stored entry's dependencies to the scope and returns the directories
// that were new to it.
func (s *Store) apply(stored *storedEntry) []string {
	var added []string
	for _, dir := range stored.manifestDirs {
		if s.scope.AddManifestDir(dir) {
			added = append(added, dir)
		}
	}
	for _, root := range stored.nodeModulesRoots {
		if s.scope.AddNodeModulesRoot(root) {
			added = append(added, root)
		}
	}
	for link, target := range stored.symlinks {
		s.scope.AddSymlink(link, target)
	}
	return added
}
