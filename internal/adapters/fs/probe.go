package fs

import (
	iofs "io/fs"
	"path/filepath"

	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/modspec/internal/core/ports"
)

var _ ports.FileProbe = (*Probe)(nil)

// Probe implements ports.FileProbe on top of a FileSystem.
type Probe struct {
	fs FileSystem
}

// NewProbe creates a Probe reading through fsys.
func NewProbe(fsys FileSystem) *Probe {
	return &Probe{fs: fsys}
}

// NearestManifestDir walks up from dir looking for a package.json file.
func (p *Probe) NearestManifestDir(dir string) (string, bool) {
	dir = filepath.Clean(dir)
	for {
		info, err := p.fs.Stat(filepath.Join(dir, domain.ManifestFileName))
		if err == nil && !info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Readlink reports the target of path when it is a symbolic link.
func (p *Probe) Readlink(path string) (string, bool) {
	info, err := p.fs.Lstat(path)
	if err != nil || info.Mode()&iofs.ModeSymlink == 0 {
		return "", false
	}
	target, err := p.fs.Readlink(path)
	if err != nil {
		return "", false
	}
	return target, true
}
