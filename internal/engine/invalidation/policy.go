// Package invalidation decides how the module specifier cache reacts to change events.
//
// Decisions are pessimistic but scoped: any event that could alter a cached
// resolution flushes the whole cache, while events outside the recorded scope
// leave it untouched.
package invalidation

import (
	"path/filepath"
	"slices"

	"go.trai.ch/modspec/internal/core/domain"
)

// Policy classifies events against an invalidation scope.
type Policy struct {
	root             string
	partialManifests bool
}

// Option configures a Policy.
type Option func(*Policy)

// WithPartialManifests makes changes to non-root package.json files produce partial
// decisions naming the stale manifest directory instead of full clears.
func WithPartialManifests(enabled bool) Option {
	return func(p *Policy) {
		p.partialManifests = enabled
	}
}

// NewPolicy creates a policy for the project rooted at root.
func NewPolicy(root string, opts ...Option) *Policy {
	p := &Policy{root: filepath.Clean(root)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Root returns the project root the policy was created for.
func (p *Policy) Root() string {
	return p.root
}

// Classify decides the action for a single file change.
//
//nolint:cyclop // one branch per row of the trigger table
func (p *Policy) Classify(scope *domain.InvalidationScope, change domain.FileChange) domain.Decision {
	path := filepath.Clean(change.Path)

	// Links can redirect any future resolution, recorded or not.
	if change.Link {
		return domain.FullClear(domain.ReasonSymlink, path)
	}
	if _, ok := scope.SymlinkTarget(path); ok {
		return domain.FullClear(domain.ReasonSymlink, path)
	}

	if _, ok := scope.NodeModulesRootFor(path); ok {
		return domain.FullClear(domain.ReasonNodeModules, path)
	}

	if change.Kind == domain.ChangeDeleted {
		// Removing a directory takes everything recorded beneath it along.
		if _, ok := scope.NodeModulesRootUnder(path); ok {
			return domain.FullClear(domain.ReasonNodeModules, path)
		}
		if _, ok := scope.SymlinkUnder(path); ok {
			return domain.FullClear(domain.ReasonSymlink, path)
		}
		if dirs := scope.ManifestDirsUnder(path); len(dirs) > 0 {
			return p.manifestsGone(path, dirs)
		}
	}

	dir := filepath.Dir(path)

	// A new node_modules next to a recorded manifest shadows packages found further up.
	if filepath.Base(path) == domain.NodeModulesDirName && change.Kind == domain.ChangeCreated && scope.HasManifestDir(dir) {
		return domain.FullClear(domain.ReasonNodeModules, path)
	}

	if domain.IsManifest(path) {
		if dir == p.root {
			return domain.FullClear(domain.ReasonManifest, path)
		}
		if scope.HasManifestDir(dir) {
			if p.partialManifests {
				return domain.Decision{
					Action:            domain.ActionPartial,
					Reason:            domain.ReasonManifest,
					Path:              path,
					StaleManifestDirs: []string{dir},
				}
			}
			return domain.FullClear(domain.ReasonManifest, path)
		}
	}

	return domain.NoInvalidation
}

// manifestsGone decides for a removed directory that held recorded manifests.
func (p *Policy) manifestsGone(path string, dirs []string) domain.Decision {
	if !p.partialManifests || slices.Contains(dirs, p.root) {
		return domain.FullClear(domain.ReasonManifest, path)
	}
	return domain.Decision{
		Action:            domain.ActionPartial,
		Reason:            domain.ReasonManifest,
		Path:              path,
		StaleManifestDirs: dirs,
	}
}

// ClassifyBatch classifies a debounced batch. The first full clear ends classification;
// partial decisions are merged.
func (p *Policy) ClassifyBatch(scope *domain.InvalidationScope, changes []domain.FileChange) domain.Decision {
	decision := domain.NoInvalidation
	for _, change := range changes {
		decision = decision.Merge(p.Classify(scope, change))
		if decision.Action == domain.ActionFullClear {
			return decision
		}
	}
	return decision
}

// ClassifySettings decides the action for a compiler settings update. A scope without
// remembered settings has nothing cached under other settings, so it never clears.
func (p *Policy) ClassifySettings(scope *domain.InvalidationScope, next domain.CompilerSettings) domain.Decision {
	prev, ok := scope.Settings()
	if !ok || prev == next.Fingerprint() {
		return domain.NoInvalidation
	}
	return domain.FullClear(domain.ReasonSettings, "")
}
