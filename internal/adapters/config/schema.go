package config

// Specfile represents the structure of the modspec.yaml configuration file.
type Specfile struct {
	Version         string             `yaml:"version"`
	Root            string             `yaml:"root"`
	Preferences     PreferencesDTO     `yaml:"preferences"`
	CompilerOptions CompilerOptionsDTO `yaml:"compilerOptions"`
	Cache           CacheDTO           `yaml:"cache"`
}

// PreferencesDTO holds the editor preferences. Keys not listed here are kept in Extra.
type PreferencesDTO struct {
	ImportModuleSpecifierPreference   string         `yaml:"importModuleSpecifierPreference"`
	ImportModuleSpecifierEnding       string         `yaml:"importModuleSpecifierEnding"`
	IncludePackageJSONAutoImports     string         `yaml:"includePackageJsonAutoImports"`
	QuotePreference                   string         `yaml:"quotePreference"`
	IncludeCompletionsWithSnippetText bool           `yaml:"includeCompletionsWithSnippetText"`
	OrganizeImportsIgnoreCase         bool           `yaml:"organizeImportsIgnoreCase"`
	Extra                             map[string]any `yaml:",inline"`
}

// CompilerOptionsDTO holds the compiler options that matter for module resolution.
type CompilerOptionsDTO struct {
	ModuleResolution           string              `yaml:"moduleResolution"`
	BaseURL                    string              `yaml:"baseUrl"`
	Paths                      map[string][]string `yaml:"paths"`
	RootDirs                   []string            `yaml:"rootDirs"`
	PreserveSymlinks           bool                `yaml:"preserveSymlinks"`
	AllowImportingTSExtensions bool                `yaml:"allowImportingTsExtensions"`
	Target                     string              `yaml:"target"`
	Strict                     bool                `yaml:"strict"`
}

// CacheDTO tunes the cache.
type CacheDTO struct {
	Debounce                    string `yaml:"debounce"`
	PartialManifestInvalidation bool   `yaml:"partialManifestInvalidation"`
}
