package domain

import "slices"

// SpecifierKind records how the specifiers of an entry were produced.
type SpecifierKind string

const (
	KindRelative    SpecifierKind = "relative"
	KindPaths       SpecifierKind = "paths"
	KindRedirect    SpecifierKind = "redirect"
	KindNodeModules SpecifierKind = "node_modules"
	KindAmbient     SpecifierKind = "ambient"
)

// ModulePath is one candidate on-disk location the imported file resolves through.
type ModulePath struct {
	Path            string
	IsInNodeModules bool
	// IsRedirect marks a path reached through a symbolic link or a package redirect
	// rather than the file's own location.
	IsRedirect bool
}

// CacheEntry is the cached outcome of resolving one import.
//
// Entries are values owned by the cache. The cache stores and hands out clones,
// so callers never observe or cause mutation of stored state.
type CacheEntry struct {
	ModulePaths      []ModulePath
	ModuleSpecifiers []string
	Kind             SpecifierKind

	IsBlockedByPackageJSONDependencies bool
}

// Clone returns a deep copy of the entry. Cloning nil yields nil.
func (e *CacheEntry) Clone() *CacheEntry {
	if e == nil {
		return nil
	}
	return &CacheEntry{
		ModulePaths:                        slices.Clone(e.ModulePaths),
		ModuleSpecifiers:                   slices.Clone(e.ModuleSpecifiers),
		Kind:                               e.Kind,
		IsBlockedByPackageJSONDependencies: e.IsBlockedByPackageJSONDependencies,
	}
}

// HasSpecifiers reports whether specifiers were computed for the entry.
// Entries populated only through module paths or the blocked flag have none.
func (e *CacheEntry) HasSpecifiers() bool {
	return e != nil && len(e.ModuleSpecifiers) > 0
}
