// Package fs provides filesystem access and the probe used to record cache scope.
package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem abstracts filesystem operations for testability.
type FileSystem interface {
	// Stat returns file info for the given path, following links.
	Stat(path string) (iofs.FileInfo, error)
	// Lstat returns file info for the given path without following a final link.
	Lstat(path string) (iofs.FileInfo, error)
	// Readlink returns the target of a symbolic link.
	Readlink(path string) (string, error)
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

var (
	_ FileSystem = (*OSFS)(nil)
	_ FileSystem = (*MapFSAdapter)(nil)
)

// OSFS implements FileSystem using the standard library.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Stat returns file info for the given path.
func (o *OSFS) Stat(path string) (iofs.FileInfo, error) {
	return os.Stat(path)
}

// Lstat returns file info without following a final link.
func (o *OSFS) Lstat(path string) (iofs.FileInfo, error) {
	return os.Lstat(path)
}

// Readlink returns the target of a symbolic link.
func (o *OSFS) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

// ReadFile reads the entire file at path.
func (o *OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- path comes from the resolution request
	return os.ReadFile(path)
}

// MapFSAdapter adapts an fs.FS (typically fstest.MapFS) mounted at Root to FileSystem.
type MapFSAdapter struct {
	FS   iofs.FS
	Root string // simulated root path
}

// NewMapFSAdapter creates a new MapFSAdapter with the given root path and filesystem.
func NewMapFSAdapter(root string, fsys iofs.FS) *MapFSAdapter {
	return &MapFSAdapter{
		FS:   fsys,
		Root: root,
	}
}

// Stat returns file info for the given path.
func (m *MapFSAdapter) Stat(path string) (iofs.FileInfo, error) {
	return iofs.Stat(m.FS, m.toRelPath(path))
}

// Lstat returns file info without following a final link.
func (m *MapFSAdapter) Lstat(path string) (iofs.FileInfo, error) {
	return iofs.Lstat(m.FS, m.toRelPath(path))
}

// Readlink returns the target of a symbolic link.
func (m *MapFSAdapter) Readlink(path string) (string, error) {
	return iofs.ReadLink(m.FS, m.toRelPath(path))
}

// ReadFile reads the entire file at path.
func (m *MapFSAdapter) ReadFile(path string) ([]byte, error) {
	return iofs.ReadFile(m.FS, m.toRelPath(path))
}

// toRelPath converts an absolute path to a slash-separated path within the filesystem.
// Paths outside the root are returned unchanged, which makes fs operations fail
// with a clear invalid-path error.
func (m *MapFSAdapter) toRelPath(absPath string) string {
	if !filepath.IsAbs(absPath) {
		return filepath.ToSlash(absPath)
	}

	// Special case: if root is "/", all absolute paths are within root
	if m.Root != "/" && absPath != m.Root && !strings.HasPrefix(absPath, m.Root+string(filepath.Separator)) {
		return absPath
	}

	rel := strings.TrimPrefix(absPath, m.Root)
	rel = strings.TrimPrefix(rel, string(filepath.Separator))
	if rel == "" {
		return "."
	}
	return filepath.ToSlash(rel)
}
