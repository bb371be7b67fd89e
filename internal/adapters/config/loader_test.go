package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modspec/internal/adapters/config"
	"go.trai.ch/modspec/internal/adapters/fs"
	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/modspec/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newMapLoader(t *testing.T, files fstest.MapFS) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	return config.NewLoader(fs.NewMapFSAdapter("/", files), mockLogger), mockLogger
}

func yamlFile(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content), Mode: 0o644}
}

func TestLoader_Load_Full(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{
		"work/app/modspec.yaml": yamlFile(`
version: "1"
preferences:
  importModuleSpecifierPreference: non-relative
  importModuleSpecifierEnding: JS
  includePackageJsonAutoImports: "off"
  quotePreference: single
  includeCompletionsWithSnippetText: true
  organizeImportsIgnoreCase: true
  providePrefixAndSuffixTextForRename: true
compilerOptions:
  moduleResolution: NodeNext
  baseUrl: src
  paths:
    "@lib/*": ["src/lib/*"]
  rootDirs: ["src", "generated"]
  preserveSymlinks: true
  allowImportingTsExtensions: true
  target: es2022
  strict: true
cache:
  debounce: 200ms
  partialManifestInvalidation: true
`),
	})

	cfg, err := loader.Load("/work/app")
	require.NoError(t, err)

	assert.Equal(t, "/work/app", cfg.Root)
	assert.Equal(t, "/work/app/modspec.yaml", cfg.Path)
	assert.Equal(t, domain.Preferences{
		ImportModuleSpecifier:             domain.SpecifierNonRelative,
		ImportModuleSpecifierEnding:       domain.EndingJS,
		IncludePackageJSONAutoImports:     domain.AutoImportOff,
		QuotePreference:                   "single",
		IncludeCompletionsWithSnippetText: true,
		OrganizeImportsIgnoreCase:         true,
		Extra:                             map[string]any{"providePrefixAndSuffixTextForRename": true},
	}, cfg.Preferences)
	assert.Equal(t, domain.CompilerSettings{
		ModuleResolution:           domain.ResolutionNodeNext,
		BaseURL:                    "src",
		Paths:                      map[string][]string{"@lib/*": {"src/lib/*"}},
		RootDirs:                   []string{"src", "generated"},
		PreserveSymlinks:           true,
		AllowImportingTSExtensions: true,
		Target:                     "es2022",
		Strict:                     true,
	}, cfg.Settings)
	assert.Equal(t, domain.CacheOptions{Debounce: 200 * time.Millisecond, PartialManifestInvalidation: true}, cfg.Cache)
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{
		"work/app/modspec.yaml": yamlFile(`version: "1"`),
	})

	cfg, err := loader.Load("/work/app")
	require.NoError(t, err)

	want := domain.DefaultProjectConfig("/work/app")
	want.Path = "/work/app/modspec.yaml"
	assert.Equal(t, want, cfg)
}

func TestLoader_Load_NoConfigFile(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{
		"work/app/package.json": yamlFile(`{}`),
	})

	cfg, err := loader.Load("/work/app")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultProjectConfig("/work/app"), cfg)
	assert.Empty(t, cfg.Path)
}

func TestLoader_Load_Discovery(t *testing.T) {
	tests := []struct {
		name     string
		files    fstest.MapFS
		cwd      string
		wantPath string
		wantRoot string
	}{
		{
			name:     "walks up to parent",
			files:    fstest.MapFS{"work/modspec.yaml": yamlFile(`version: "1"`)},
			cwd:      "/work/app/src",
			wantPath: "/work/modspec.yaml",
			wantRoot: "/work",
		},
		{
			name: "nearest file wins",
			files: fstest.MapFS{
				"work/modspec.yaml":     yamlFile(`version: "1"`),
				"work/app/modspec.yaml": yamlFile(`version: "1"`),
			},
			cwd:      "/work/app/src",
			wantPath: "/work/app/modspec.yaml",
			wantRoot: "/work/app",
		},
		{
			name:     "relative root",
			files:    fstest.MapFS{"work/config/modspec.yaml": yamlFile("root: ../app\n")},
			cwd:      "/work/config",
			wantPath: "/work/config/modspec.yaml",
			wantRoot: "/work/app",
		},
		{
			name:     "absolute root",
			files:    fstest.MapFS{"work/modspec.yaml": yamlFile("root: /elsewhere\n")},
			cwd:      "/work",
			wantPath: "/work/modspec.yaml",
			wantRoot: "/elsewhere",
		},
		{
			name:     "directory with the config name is ignored",
			files:    fstest.MapFS{"work/modspec.yaml/placeholder": yamlFile("")},
			cwd:      "/work",
			wantPath: "",
			wantRoot: "/work",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newMapLoader(t, tt.files)

			cfg, err := loader.Load(tt.cwd)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, cfg.Path)
			assert.Equal(t, tt.wantRoot, cfg.Root)
		})
	}
}

func TestLoader_Load_UnsupportedVersionWarns(t *testing.T) {
	loader, mockLogger := newMapLoader(t, fstest.MapFS{
		"work/modspec.yaml": yamlFile(`version: "2"`),
	})
	mockLogger.EXPECT().Warn(`unsupported version "2" in modspec.yaml, reading it as version 1`)

	_, err := loader.Load("/work")
	require.NoError(t, err)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantErr   string
		wantField string
	}{
		{
			name:    "malformed yaml",
			content: "preferences: [unclosed",
			wantErr: domain.ErrConfigParseFailed.Error(),
		},
		{
			name:      "unknown specifier preference",
			content:   "preferences:\n  importModuleSpecifierPreference: nearest\n",
			wantErr:   domain.ErrInvalidPreference.Error(),
			wantField: "importModuleSpecifierPreference",
		},
		{
			name:      "unknown ending",
			content:   "preferences:\n  importModuleSpecifierEnding: mjs\n",
			wantErr:   domain.ErrInvalidPreference.Error(),
			wantField: "importModuleSpecifierEnding",
		},
		{
			name:      "unknown module resolution",
			content:   "compilerOptions:\n  moduleResolution: deno\n",
			wantErr:   domain.ErrInvalidCompilerSetting.Error(),
			wantField: "moduleResolution",
		},
		{
			name:    "malformed debounce",
			content: "cache:\n  debounce: soon\n",
			wantErr: domain.ErrConfigParseFailed.Error(),
		},
		{
			name:    "negative debounce",
			content: "cache:\n  debounce: -5ms\n",
			wantErr: domain.ErrInvalidDebounce.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newMapLoader(t, fstest.MapFS{"work/modspec.yaml": yamlFile(tt.content)})

			_, err := loader.Load("/work")
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			meta := zErr.Metadata()
			assert.Equal(t, "/work/modspec.yaml", meta["path"])
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, meta["field"])
			}
		})
	}
}

func TestLoader_Load_OSFS(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "packages", "web")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, domain.ConfigFileName),
		[]byte("compilerOptions:\n  moduleResolution: bundler\n"), 0o600))

	ctrl := gomock.NewController(t)
	loader := config.NewLoader(fs.NewOSFS(), mocks.NewMockLogger(ctrl))

	cfg, err := loader.Load(sub)
	require.NoError(t, err)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, domain.ResolutionBundler, cfg.Settings.ModuleResolution)
}
