package nodefs

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/modspec/internal/core/domain"
)

// candidate is one way of writing a project-local specifier.
type candidate struct {
	spec string
	kind domain.SpecifierKind
}

// projectSpecifiers computes the specifiers for a file that is not inside an installed
// package, ordered by the importer's preference.
func (r *Resolver) projectSpecifiers(from, to string, req domain.ResolveRequest) ([]string, domain.SpecifierKind) {
	ending := req.Preferences.ImportModuleSpecifierEnding
	relative := candidate{spec: relativeSpecifier(from, to, ending, req.Settings), kind: domain.KindRelative}
	nonRelative := nonRelativeCandidates(to, req)

	var ordered []candidate
	switch req.Preferences.ImportModuleSpecifier {
	case domain.SpecifierRelative:
		ordered = []candidate{relative}
	case domain.SpecifierNonRelative:
		ordered = append(nonRelative, relative)
	case domain.SpecifierProjectRelative:
		fromPkg, fromOK := r.probe.NearestManifestDir(filepath.Dir(from))
		toPkg, toOK := r.probe.NearestManifestDir(filepath.Dir(to))
		if fromOK == toOK && fromPkg == toPkg {
			ordered = append([]candidate{relative}, nonRelative...)
		} else {
			ordered = append(nonRelative, relative)
		}
	default:
		ordered = append([]candidate{relative}, nonRelative...)
		// Stable, so relative wins ties.
		slices.SortStableFunc(ordered, func(a, b candidate) int {
			return segmentCount(a.spec) - segmentCount(b.spec)
		})
	}

	specs := make([]string, 0, len(ordered))
	for _, c := range ordered {
		if c.spec != "" && !slices.Contains(specs, c.spec) {
			specs = append(specs, c.spec)
		}
	}
	return specs, ordered[0].kind
}

// relativeSpecifier writes to relative to the importing file's directory.
func relativeSpecifier(from, to string, ending domain.EndingPreference, settings domain.CompilerSettings) string {
	rel, err := filepath.Rel(filepath.Dir(from), to)
	if err != nil {
		return ""
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return applyEnding(rel, ending, settings)
}

// nonRelativeCandidates lists the specifiers reachable through paths mappings and
// baseUrl, in that order.
func nonRelativeCandidates(to string, req domain.ResolveRequest) []candidate {
	base := req.Settings.BaseURL
	switch {
	case base == "" && len(req.Settings.Paths) == 0:
		return nil
	case base == "":
		base = req.Root
	case !filepath.IsAbs(base):
		base = filepath.Join(req.Root, base)
	}

	var out []candidate
	if spec, ok := matchPaths(to, base, req.Settings.Paths); ok {
		out = append(out, candidate{spec: spec, kind: domain.KindPaths})
	}
	if req.Settings.BaseURL != "" {
		if rel, err := filepath.Rel(base, to); err == nil && !strings.HasPrefix(rel, "..") {
			spec := applyEnding(filepath.ToSlash(rel), req.Preferences.ImportModuleSpecifierEnding, req.Settings)
			out = append(out, candidate{spec: spec, kind: domain.KindPaths})
		}
	}
	return out
}

// matchPaths finds the first paths pattern, in sorted order, whose target covers to.
// Only patterns with at most one wildcard are supported, as in tsconfig.
func matchPaths(to, base string, paths map[string][]string) (string, bool) {
	noExt, _ := splitExtension(filepath.ToSlash(to))
	patterns := make([]string, 0, len(paths))
	for pattern := range paths {
		patterns = append(patterns, pattern)
	}
	slices.Sort(patterns)

	for _, pattern := range patterns {
		for _, target := range paths[pattern] {
			abs := filepath.ToSlash(filepath.Join(base, filepath.FromSlash(target)))
			targetNoExt, _ := splitExtension(abs)
			prefix, suffix, wildcard := strings.Cut(targetNoExt, "*")
			if !wildcard {
				if targetNoExt == noExt {
					return pattern, true
				}
				continue
			}
			if !strings.HasPrefix(noExt, prefix) || !strings.HasSuffix(noExt, suffix) || len(noExt) < len(prefix)+len(suffix) {
				continue
			}
			matched := noExt[len(prefix) : len(noExt)-len(suffix)]
			spec := strings.Replace(pattern, "*", matched, 1)
			return trimIndex(spec), true
		}
	}
	return "", false
}

// segmentCount counts path separators, ignoring a leading "./".
func segmentCount(spec string) int {
	return strings.Count(strings.TrimPrefix(spec, "./"), "/")
}
