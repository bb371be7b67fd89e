package domain

import (
	"path/filepath"
	"strings"
	"unique"
)

const (
	// ManifestFileName is the package manifest consulted during resolution.
	ManifestFileName = "package.json"
	// NodeModulesDirName is the directory name package managers install dependencies into.
	NodeModulesDirName = "node_modules"
)

// Path is a canonical, interned filesystem path.
// Paths are cleaned on construction so that equal locations compare equal as map keys.
type Path struct {
	h unique.Handle[string]
}

// NewPath creates a canonical Path from a string.
// An empty string yields the zero Path.
func NewPath(p string) Path {
	if p == "" {
		return Path{}
	}
	return Path{h: unique.Make(filepath.Clean(p))}
}

// String returns the underlying path.
func (p Path) String() string {
	if p.IsZero() {
		return ""
	}
	return p.h.Value()
}

// IsZero reports whether the path is empty.
func (p Path) IsZero() bool {
	return p == Path{}
}

// Dir returns the parent directory.
func (p Path) Dir() Path {
	return NewPath(filepath.Dir(p.String()))
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	*p = NewPath(string(text))
	return nil
}

// IsManifest reports whether the path names a package manifest.
func IsManifest(path string) bool {
	return filepath.Base(path) == ManifestFileName
}

// Within reports whether path is root itself or lies beneath it.
func Within(root, path string) bool {
	root = filepath.Clean(root)
	path = filepath.Clean(path)
	if root == path {
		return true
	}
	if root == string(filepath.Separator) {
		return strings.HasPrefix(path, root)
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

// NodeModulesAncestors returns every ancestor directory of path named node_modules,
// nearest first.
func NodeModulesAncestors(path string) []string {
	var roots []string
	dir := filepath.Dir(filepath.Clean(path))
	for {
		if filepath.Base(dir) == NodeModulesDirName {
			roots = append(roots, dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return roots
		}
		dir = parent
	}
}

// IsInNodeModules reports whether any path segment is a node_modules directory.
func IsInNodeModules(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if seg == NodeModulesDirName {
			return true
		}
	}
	return false
}
