package domain

import "time"

// ConfigFileName is the project configuration file name.
const ConfigFileName = "modspec.yaml"

// DefaultDebounceWindow is the default time window for coalescing file events.
const DefaultDebounceWindow = 50 * time.Millisecond

// CacheOptions tunes the cache and its change pipeline.
type CacheOptions struct {
	// Debounce is the window used to batch file events before invalidation.
	Debounce time.Duration
	// PartialManifestInvalidation drops only the entries tied to a changed non-root
	// package.json instead of clearing everything.
	PartialManifestInvalidation bool
}

// ProjectConfig is the resolved configuration of one analyzed project.
type ProjectConfig struct {
	// Root is the absolute project root directory.
	Root string
	// Path is the configuration file the values were read from. Empty when defaults apply.
	Path        string
	Preferences Preferences
	Settings    CompilerSettings
	Cache       CacheOptions
}

// DefaultProjectConfig returns the configuration used when no file is present.
func DefaultProjectConfig(root string) *ProjectConfig {
	return &ProjectConfig{
		Root: root,
		Preferences: Preferences{
			ImportModuleSpecifier:         SpecifierShortest,
			ImportModuleSpecifierEnding:   EndingAuto,
			IncludePackageJSONAutoImports: AutoImportAuto,
		},
		Settings: CompilerSettings{ModuleResolution: ResolutionNode10},
		Cache:    CacheOptions{Debounce: DefaultDebounceWindow},
	}
}
