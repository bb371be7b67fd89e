// Package manifest reads the package.json fields that matter for module specifiers.
package manifest

import (
	"path/filepath"

	"github.com/goccy/go-json"
	"go.trai.ch/modspec/internal/adapters/fs"
	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/zerr"
)

// PackageJSON is the subset of a package manifest used for specifier generation.
type PackageJSON struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Main                 string            `json:"main"`
	Module               string            `json:"module"`
	Types                string            `json:"types"`
	Typings              string            `json:"typings"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// Declares reports whether name appears in any dependency map.
func (p *PackageJSON) Declares(name string) bool {
	for _, deps := range []map[string]string{
		p.Dependencies,
		p.DevDependencies,
		p.PeerDependencies,
		p.OptionalDependencies,
	} {
		if _, ok := deps[name]; ok {
			return true
		}
	}
	return false
}

// EntryPoints returns the package-relative entry files named by the manifest,
// in the order they are preferred.
func (p *PackageJSON) EntryPoints() []string {
	var entries []string
	for _, e := range []string{p.Types, p.Typings, p.Module, p.Main} {
		if e != "" {
			entries = append(entries, filepath.Clean(filepath.FromSlash(e)))
		}
	}
	return entries
}

// Reader loads manifests through a FileSystem.
type Reader struct {
	fs fs.FileSystem
}

// NewReader creates a Reader.
func NewReader(fsys fs.FileSystem) *Reader {
	return &Reader{fs: fsys}
}

// Read parses the package.json in dir.
func (r *Reader) Read(dir string) (*PackageJSON, error) {
	path := filepath.Join(dir, domain.ManifestFileName)
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", path)
	}
	return &pkg, nil
}
