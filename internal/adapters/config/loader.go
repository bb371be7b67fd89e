// Package config provides the configuration loader for modspec.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/modspec/internal/adapters/fs"
	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/modspec/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// supportedVersion is the only configuration format version understood.
const supportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	FS     fs.FileSystem
	Logger ports.Logger
}

// NewLoader creates a new Loader reading through fsys.
func NewLoader(fsys fs.FileSystem, logger ports.Logger) *Loader {
	return &Loader{FS: fsys, Logger: logger}
}

// Load finds modspec.yaml by walking up from cwd and returns the project configuration.
// Without a configuration file, defaults rooted at cwd are returned.
func (l *Loader) Load(cwd string) (*domain.ProjectConfig, error) {
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	configPath, ok := l.findConfiguration(cwd)
	if !ok {
		return domain.DefaultProjectConfig(cwd), nil
	}
	return l.loadSpecfile(configPath)
}

func (l *Loader) findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) loadSpecfile(configPath string) (*domain.ProjectConfig, error) {
	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var specfile Specfile
	if err := yaml.Unmarshal(data, &specfile); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	if specfile.Version != "" && specfile.Version != supportedVersion && l.Logger != nil {
		l.Logger.Warn(fmt.Sprintf("unsupported version %q in %s, reading it as version %s",
			specfile.Version, domain.ConfigFileName, supportedVersion))
	}

	cfg := domain.DefaultProjectConfig(resolveRoot(configPath, specfile.Root))
	cfg.Path = configPath
	applyPreferences(&cfg.Preferences, specfile.Preferences)
	applyCompilerOptions(&cfg.Settings, specfile.CompilerOptions)

	if err := applyCache(&cfg.Cache, specfile.Cache); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	if err := cfg.Preferences.Validate(); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return cfg, nil
}

func applyPreferences(p *domain.Preferences, dto PreferencesDTO) {
	if v := normalize(dto.ImportModuleSpecifierPreference); v != "" {
		p.ImportModuleSpecifier = domain.SpecifierPreference(v)
	}
	if v := normalize(dto.ImportModuleSpecifierEnding); v != "" {
		p.ImportModuleSpecifierEnding = domain.EndingPreference(v)
	}
	if v := normalize(dto.IncludePackageJSONAutoImports); v != "" {
		p.IncludePackageJSONAutoImports = domain.AutoImportMode(v)
	}
	p.QuotePreference = dto.QuotePreference
	p.IncludeCompletionsWithSnippetText = dto.IncludeCompletionsWithSnippetText
	p.OrganizeImportsIgnoreCase = dto.OrganizeImportsIgnoreCase
	if len(dto.Extra) > 0 {
		p.Extra = dto.Extra
	}
}

func applyCompilerOptions(s *domain.CompilerSettings, dto CompilerOptionsDTO) {
	if v := normalize(dto.ModuleResolution); v != "" {
		s.ModuleResolution = domain.ModuleResolutionKind(v)
	}
	s.BaseURL = dto.BaseURL
	s.Paths = dto.Paths
	s.RootDirs = dto.RootDirs
	s.PreserveSymlinks = dto.PreserveSymlinks
	s.AllowImportingTSExtensions = dto.AllowImportingTSExtensions
	s.Target = dto.Target
	s.Strict = dto.Strict
}

func applyCache(c *domain.CacheOptions, dto CacheDTO) error {
	c.PartialManifestInvalidation = dto.PartialManifestInvalidation
	if dto.Debounce == "" {
		return nil
	}
	d, err := time.ParseDuration(dto.Debounce)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "field", "cache.debounce")
	}
	if d < 0 {
		return zerr.With(domain.ErrInvalidDebounce, "value", dto.Debounce)
	}
	c.Debounce = d
	return nil
}

// normalize lowercases enum spellings so "NodeNext" and "nodenext" are the same value.
func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}
