// Package nodefs computes module specifiers by inspecting a Node-style file layout.
package nodefs

import (
	"context"
	"path/filepath"
	"strings"

	"go.trai.ch/modspec/internal/adapters/fs"
	"go.trai.ch/modspec/internal/adapters/manifest"
	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/modspec/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Resolver = (*Resolver)(nil)

// Resolver implements ports.Resolver against a FileSystem.
type Resolver struct {
	probe     *fs.Probe
	manifests *manifest.Reader
}

// NewResolver creates a Resolver reading through fsys.
func NewResolver(fsys fs.FileSystem) *Resolver {
	return &Resolver{
		probe:     fs.NewProbe(fsys),
		manifests: manifest.NewReader(fsys),
	}
}

// Resolve computes the module paths and specifiers for importing req.To from req.From.
func (r *Resolver) Resolve(ctx context.Context, req domain.ResolveRequest) (*domain.CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, p := range []string{req.From, req.To} {
		if !filepath.IsAbs(p) {
			return nil, zerr.With(domain.ErrPathNotAbsolute, "path", p)
		}
	}
	from := filepath.Clean(req.From)
	to := filepath.Clean(req.To)

	paths := r.modulePaths(to, req.Settings)
	entry := &domain.CacheEntry{ModulePaths: paths}

	for _, mp := range paths {
		if !mp.IsInNodeModules {
			continue
		}
		pkg, ok := splitPackage(mp.Path)
		if !ok {
			continue
		}
		entry.ModuleSpecifiers = []string{r.packageSpecifier(pkg, req)}
		entry.Kind = domain.KindNodeModules
		entry.IsBlockedByPackageJSONDependencies = r.blocked(from, pkg, req.Preferences)
		return entry, nil
	}

	specs, kind := r.projectSpecifiers(from, to, req)
	if len(specs) == 0 {
		return nil, zerr.With(zerr.With(domain.ErrResolutionFailed, "from", from), "to", to)
	}
	entry.ModuleSpecifiers = specs
	entry.Kind = kind
	for _, mp := range paths {
		if mp.IsRedirect && kind == domain.KindRelative {
			entry.Kind = domain.KindRedirect
		}
	}
	return entry, nil
}

// modulePaths lists to itself and, unless links are preserved, the location it
// reaches through the nearest linked ancestor.
func (r *Resolver) modulePaths(to string, settings domain.CompilerSettings) []domain.ModulePath {
	paths := []domain.ModulePath{{Path: to, IsInNodeModules: domain.IsInNodeModules(to)}}
	if settings.PreserveSymlinks {
		return paths
	}
	if real, ok := r.realPath(to); ok && real != to {
		paths = append(paths, domain.ModulePath{
			Path:            real,
			IsInNodeModules: domain.IsInNodeModules(real),
			IsRedirect:      true,
		})
	}
	return paths
}

// realPath follows the nearest symbolic link among path and its ancestors.
func (r *Resolver) realPath(path string) (string, bool) {
	for dir := path; ; {
		if target, ok := r.probe.Readlink(dir); ok {
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(dir), target)
			}
			rest, err := filepath.Rel(dir, path)
			if err != nil {
				return "", false
			}
			return filepath.Join(target, rest), true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// pkgPath is a file located inside an installed package.
type pkgPath struct {
	root    string // directory of the package, ending in its name
	name    string // package name as written in an import
	subpath string // slash-separated path of the file inside the package
}

// splitPackage locates the innermost node_modules segment of path and splits the
// remainder into package name and subpath.
func splitPackage(path string) (pkgPath, bool) {
	segments := strings.Split(filepath.ToSlash(path), "/")
	i := len(segments) - 1
	for i >= 0 && segments[i] != domain.NodeModulesDirName {
		i--
	}
	if i < 0 || i+1 >= len(segments) {
		return pkgPath{}, false
	}
	nameEnd := i + 2
	if strings.HasPrefix(segments[i+1], "@") {
		nameEnd = i + 3
	}
	if nameEnd > len(segments) {
		return pkgPath{}, false
	}
	name := strings.Join(segments[i+1:nameEnd], "/")
	if strings.HasPrefix(name, ".") {
		return pkgPath{}, false
	}
	return pkgPath{
		root:    filepath.FromSlash(strings.Join(segments[:nameEnd], "/")),
		name:    name,
		subpath: strings.Join(segments[nameEnd:], "/"),
	}, true
}

// importName maps a declaration package back to the package it types.
func (p pkgPath) importName() string {
	typed, ok := strings.CutPrefix(p.name, "@types/")
	if !ok {
		return p.name
	}
	if scope, name, found := strings.Cut(typed, "__"); found {
		return "@" + scope + "/" + name
	}
	return typed
}

// packageSpecifier writes the bare specifier for a file inside an installed package.
func (r *Resolver) packageSpecifier(pkg pkgPath, req domain.ResolveRequest) string {
	name := pkg.importName()
	if pkg.subpath == "" {
		return name
	}

	base, _ := splitExtension(pkg.subpath)
	if base == "index" {
		return name
	}
	if m, err := r.manifests.Read(pkg.root); err == nil {
		for _, entry := range m.EntryPoints() {
			entryBase, _ := splitExtension(filepath.ToSlash(entry))
			if entryBase == base {
				return name
			}
		}
	}
	return name + "/" + applyEnding(pkg.subpath, req.Preferences.ImportModuleSpecifierEnding, req.Settings)
}

// blocked reports whether importing pkg from within from needs a dependency the
// importer's package.json does not declare.
func (r *Resolver) blocked(from string, pkg pkgPath, prefs domain.Preferences) bool {
	if prefs.IncludePackageJSONAutoImports == domain.AutoImportOff {
		return false
	}
	dir, ok := r.probe.NearestManifestDir(filepath.Dir(from))
	if !ok {
		return false
	}
	m, err := r.manifests.Read(dir)
	if err != nil {
		return false
	}
	name := pkg.importName()
	if m.Name == name || m.Declares(name) || m.Declares(pkg.name) {
		return false
	}
	return true
}
