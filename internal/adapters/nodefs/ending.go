package nodefs

import (
	"strings"

	"go.trai.ch/modspec/internal/core/domain"
)

// extensions are stripped longest first so .d.ts wins over .ts.
var extensions = []string{
	".d.mts", ".d.cts", ".d.ts",
	".tsx", ".mts", ".cts", ".ts",
	".jsx", ".mjs", ".cjs", ".js",
	".json",
}

// jsExtensions maps a source extension to the extension written in a .js-style specifier.
var jsExtensions = map[string]string{
	".d.mts": ".mjs",
	".d.cts": ".cjs",
	".d.ts":  ".js",
	".tsx":   ".js",
	".mts":   ".mjs",
	".cts":   ".cjs",
	".ts":    ".js",
	".jsx":   ".jsx",
	".mjs":   ".mjs",
	".cjs":   ".cjs",
	".js":    ".js",
	".json":  ".json",
}

// splitExtension returns path without its recognized extension, and the extension.
func splitExtension(path string) (string, string) {
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext), ext
		}
	}
	return path, ""
}

// effectiveEnding resolves EndingAuto against the project settings: node16 and
// nodenext require explicit extensions, every other strategy accepts minimal ones.
func effectiveEnding(ending domain.EndingPreference, settings domain.CompilerSettings) domain.EndingPreference {
	if ending != "" && ending != domain.EndingAuto {
		return ending
	}
	switch settings.ModuleResolution {
	case domain.ResolutionNode16, domain.ResolutionNodeNext:
		return domain.EndingJS
	default:
		return domain.EndingMinimal
	}
}

// applyEnding rewrites the tail of a slash-separated specifier per the ending style.
func applyEnding(spec string, ending domain.EndingPreference, settings domain.CompilerSettings) string {
	base, ext := splitExtension(spec)
	switch effectiveEnding(ending, settings) {
	case domain.EndingIndex:
		return base
	case domain.EndingJS:
		if ext == "" {
			return spec
		}
		if settings.AllowImportingTSExtensions && !strings.HasPrefix(ext, ".d.") {
			return spec
		}
		return base + jsExtensions[ext]
	default:
		return trimIndex(base)
	}
}

// trimIndex drops a trailing /index segment.
func trimIndex(spec string) string {
	switch {
	case spec == "./index":
		return "."
	case spec == "index":
		return "."
	case strings.HasSuffix(spec, "/index"):
		return strings.TrimSuffix(spec, "/index")
	}
	return spec
}
