package domain

import (
	"maps"
	"slices"
)

// InvalidationScope tracks which parts of the filesystem the cached entries depend on.
// It is owned by the cache store and grows as entries are added.
type InvalidationScope struct {
	manifestDirs     map[string]struct{}
	nodeModulesRoots map[string]struct{}
	symlinks         map[string]string
	fingerprints     map[Fingerprint]struct{}
	settings         Fingerprint
	hasSettings      bool
	preferences      Fingerprint
	hasPreferences   bool
}

// NewInvalidationScope returns an empty scope.
func NewInvalidationScope() *InvalidationScope {
	s := &InvalidationScope{}
	s.Reset()
	return s
}

// Reset empties the scope, including the remembered settings fingerprint.
func (s *InvalidationScope) Reset() {
	s.manifestDirs = make(map[string]struct{})
	s.nodeModulesRoots = make(map[string]struct{})
	s.symlinks = make(map[string]string)
	s.fingerprints = make(map[Fingerprint]struct{})
	s.settings = 0
	s.hasSettings = false
	s.preferences = 0
	s.hasPreferences = false
}

// AddManifestDir records a directory whose package.json state affects cached entries.
// It reports whether the directory was new.
func (s *InvalidationScope) AddManifestDir(dir string) bool {
	return addTo(s.manifestDirs, dir)
}

// AddNodeModulesRoot records a node_modules directory whose contents affect cached entries.
// It reports whether the directory was new.
func (s *InvalidationScope) AddNodeModulesRoot(dir string) bool {
	return addTo(s.nodeModulesRoots, dir)
}

// AddSymlink records a link and its target.
func (s *InvalidationScope) AddSymlink(path, target string) {
	s.symlinks[NewPath(path).String()] = target
}

// AddFingerprint remembers a preference fingerprint entries were stored under.
func (s *InvalidationScope) AddFingerprint(f Fingerprint) {
	s.fingerprints[f] = struct{}{}
}

// SetSettings remembers the resolution settings in effect.
func (s *InvalidationScope) SetSettings(f Fingerprint) {
	s.settings = f
	s.hasSettings = true
}

// Settings returns the remembered settings fingerprint, if any.
func (s *InvalidationScope) Settings() (Fingerprint, bool) {
	return s.settings, s.hasSettings
}

// SetPreferences remembers the last-applied preference fingerprint.
func (s *InvalidationScope) SetPreferences(f Fingerprint) {
	s.preferences = f
	s.hasPreferences = true
}

// Preferences returns the last-applied preference fingerprint, if any.
func (s *InvalidationScope) Preferences() (Fingerprint, bool) {
	return s.preferences, s.hasPreferences
}

// HasManifestDir reports whether dir is a recorded manifest directory.
func (s *InvalidationScope) HasManifestDir(dir string) bool {
	_, ok := s.manifestDirs[NewPath(dir).String()]
	return ok
}

// NodeModulesRootFor returns the recorded node_modules root containing path, if any.
func (s *InvalidationScope) NodeModulesRootFor(path string) (string, bool) {
	for root := range s.nodeModulesRoots {
		if Within(root, path) {
			return root, true
		}
	}
	return "", false
}

// NodeModulesRootUnder returns a recorded node_modules root at or beneath dir, if any.
func (s *InvalidationScope) NodeModulesRootUnder(dir string) (string, bool) {
	for root := range s.nodeModulesRoots {
		if Within(dir, root) {
			return root, true
		}
	}
	return "", false
}

// ManifestDirsUnder returns the recorded manifest directories at or beneath dir, sorted.
func (s *InvalidationScope) ManifestDirsUnder(dir string) []string {
	var dirs []string
	for m := range s.manifestDirs {
		if Within(dir, m) {
			dirs = append(dirs, m)
		}
	}
	slices.Sort(dirs)
	return dirs
}

// SymlinkUnder returns a recorded link at or beneath dir, if any.
func (s *InvalidationScope) SymlinkUnder(dir string) (string, bool) {
	for link := range s.symlinks {
		if Within(dir, link) {
			return link, true
		}
	}
	return "", false
}

// SymlinkTarget returns the recorded target when path is a known link.
func (s *InvalidationScope) SymlinkTarget(path string) (string, bool) {
	target, ok := s.symlinks[NewPath(path).String()]
	return target, ok
}

// HasFingerprint reports whether any entry was stored under f.
func (s *InvalidationScope) HasFingerprint(f Fingerprint) bool {
	_, ok := s.fingerprints[f]
	return ok
}

// ManifestDirs returns the recorded manifest directories, sorted.
func (s *InvalidationScope) ManifestDirs() []string {
	return slices.Sorted(maps.Keys(s.manifestDirs))
}

// NodeModulesRoots returns the recorded node_modules roots, sorted.
func (s *InvalidationScope) NodeModulesRoots() []string {
	return slices.Sorted(maps.Keys(s.nodeModulesRoots))
}

// Symlinks returns a copy of the recorded links.
func (s *InvalidationScope) Symlinks() map[string]string {
	return maps.Clone(s.symlinks)
}

// IsEmpty reports whether nothing has been recorded.
func (s *InvalidationScope) IsEmpty() bool {
	return len(s.manifestDirs) == 0 && len(s.nodeModulesRoots) == 0 && len(s.symlinks) == 0
}

func addTo(set map[string]struct{}, dir string) bool {
	dir = NewPath(dir).String()
	if dir == "" {
		return false
	}
	if _, ok := set[dir]; ok {
		return false
	}
	set[dir] = struct{}{}
	return true
}
