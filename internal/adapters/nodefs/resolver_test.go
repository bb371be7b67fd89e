package nodefs_test

import (
	"context"
	iofs "io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modspec/internal/adapters/fs"
	"go.trai.ch/modspec/internal/adapters/nodefs"
	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/zerr"
)

func newResolver(files fstest.MapFS) *nodefs.Resolver {
	return nodefs.NewResolver(fs.NewMapFSAdapter("/", files))
}

func file(data string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(data), Mode: 0o644}
}

func projectFS() fstest.MapFS {
	return fstest.MapFS{
		"proj/package.json":                               file(`{"name":"app","dependencies":{"lodash":"^4.0.0"}}`),
		"proj/src/a.ts":                                   file(""),
		"proj/src/b.ts":                                   file(""),
		"proj/src/lib/index.ts":                           file(""),
		"proj/src/deep/nested/c.ts":                       file(""),
		"proj/node_modules/lodash/package.json":           file(`{"name":"lodash","types":"./types/lodash.d.ts"}`),
		"proj/node_modules/lodash/types/lodash.d.ts":      file(""),
		"proj/node_modules/lodash/fp/map.d.ts":            file(""),
		"proj/node_modules/react/index.d.ts":              file(""),
		"proj/node_modules/@types/node/fs.d.ts":           file(""),
		"proj/node_modules/@types/babel__core/index.d.ts": file(""),
	}
}

func resolve(t *testing.T, r *nodefs.Resolver, req domain.ResolveRequest) *domain.CacheEntry {
	t.Helper()
	if req.Root == "" {
		req.Root = "/proj"
	}
	entry, err := r.Resolve(context.Background(), req)
	require.NoError(t, err)
	return entry
}

func TestResolver_RelativeSibling(t *testing.T) {
	r := newResolver(projectFS())

	entry := resolve(t, r, domain.ResolveRequest{From: "/proj/src/a.ts", To: "/proj/src/b.ts"})

	assert.Equal(t, []string{"./b"}, entry.ModuleSpecifiers)
	assert.Equal(t, domain.KindRelative, entry.Kind)
	assert.Equal(t, []domain.ModulePath{{Path: "/proj/src/b.ts"}}, entry.ModulePaths)
	assert.False(t, entry.IsBlockedByPackageJSONDependencies)
}

func TestResolver_Endings(t *testing.T) {
	tests := []struct {
		name     string
		to       string
		ending   domain.EndingPreference
		settings domain.CompilerSettings
		want     string
	}{
		{name: "minimal", to: "/proj/src/lib/index.ts", ending: domain.EndingMinimal, want: "./lib"},
		{name: "index", to: "/proj/src/lib/index.ts", ending: domain.EndingIndex, want: "./lib/index"},
		{name: "js", to: "/proj/src/lib/index.ts", ending: domain.EndingJS, want: "./lib/index.js"},
		{name: "auto defaults to minimal", to: "/proj/src/b.ts", want: "./b"},
		{
			name:     "auto under node16",
			to:       "/proj/src/b.ts",
			ending:   domain.EndingAuto,
			settings: domain.CompilerSettings{ModuleResolution: domain.ResolutionNode16},
			want:     "./b.js",
		},
		{
			name:     "ts extensions allowed",
			to:       "/proj/src/b.ts",
			ending:   domain.EndingJS,
			settings: domain.CompilerSettings{AllowImportingTSExtensions: true},
			want:     "./b.ts",
		},
	}

	r := newResolver(projectFS())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := resolve(t, r, domain.ResolveRequest{
				From:        "/proj/src/a.ts",
				To:          tt.to,
				Preferences: domain.Preferences{ImportModuleSpecifierEnding: tt.ending},
				Settings:    tt.settings,
			})
			assert.Equal(t, tt.want, entry.ModuleSpecifiers[0])
		})
	}
}

func TestResolver_RelativeUpward(t *testing.T) {
	r := newResolver(projectFS())

	entry := resolve(t, r, domain.ResolveRequest{From: "/proj/src/deep/nested/c.ts", To: "/proj/src/b.ts"})

	assert.Equal(t, []string{"../../b"}, entry.ModuleSpecifiers)
}

func TestResolver_Packages(t *testing.T) {
	tests := []struct {
		name string
		to   string
		want string
	}{
		{name: "types entry", to: "/proj/node_modules/lodash/types/lodash.d.ts", want: "lodash"},
		{name: "subpath", to: "/proj/node_modules/lodash/fp/map.d.ts", want: "lodash/fp/map"},
		{name: "index at package root", to: "/proj/node_modules/react/index.d.ts", want: "react"},
		{name: "types package subpath", to: "/proj/node_modules/@types/node/fs.d.ts", want: "node/fs"},
		{name: "scoped types package", to: "/proj/node_modules/@types/babel__core/index.d.ts", want: "@babel/core"},
	}

	r := newResolver(projectFS())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := resolve(t, r, domain.ResolveRequest{From: "/proj/src/a.ts", To: tt.to})
			assert.Equal(t, []string{tt.want}, entry.ModuleSpecifiers)
			assert.Equal(t, domain.KindNodeModules, entry.Kind)
			require.Len(t, entry.ModulePaths, 1)
			assert.True(t, entry.ModulePaths[0].IsInNodeModules)
		})
	}
}

func TestResolver_BlockedByPackageJSONDependencies(t *testing.T) {
	r := newResolver(projectFS())

	t.Run("declared dependency", func(t *testing.T) {
		entry := resolve(t, r, domain.ResolveRequest{
			From: "/proj/src/a.ts",
			To:   "/proj/node_modules/lodash/fp/map.d.ts",
		})
		assert.False(t, entry.IsBlockedByPackageJSONDependencies)
	})

	t.Run("undeclared dependency", func(t *testing.T) {
		entry := resolve(t, r, domain.ResolveRequest{
			From: "/proj/src/a.ts",
			To:   "/proj/node_modules/react/index.d.ts",
		})
		assert.True(t, entry.IsBlockedByPackageJSONDependencies)
	})

	t.Run("auto imports off", func(t *testing.T) {
		entry := resolve(t, r, domain.ResolveRequest{
			From:        "/proj/src/a.ts",
			To:          "/proj/node_modules/react/index.d.ts",
			Preferences: domain.Preferences{IncludePackageJSONAutoImports: domain.AutoImportOff},
		})
		assert.False(t, entry.IsBlockedByPackageJSONDependencies)
	})
}

func TestResolver_BaseURL(t *testing.T) {
	r := newResolver(projectFS())
	settings := domain.CompilerSettings{BaseURL: "src"}

	t.Run("shortest prefers fewer segments", func(t *testing.T) {
		entry := resolve(t, r, domain.ResolveRequest{
			From:     "/proj/src/deep/nested/c.ts",
			To:       "/proj/src/lib/index.ts",
			Settings: settings,
		})
		assert.Equal(t, []string{"lib", "../../lib"}, entry.ModuleSpecifiers)
		assert.Equal(t, domain.KindPaths, entry.Kind)
	})

	t.Run("shortest keeps relative on ties", func(t *testing.T) {
		entry := resolve(t, r, domain.ResolveRequest{
			From:     "/proj/src/a.ts",
			To:       "/proj/src/b.ts",
			Settings: settings,
		})
		assert.Equal(t, []string{"./b", "b"}, entry.ModuleSpecifiers)
		assert.Equal(t, domain.KindRelative, entry.Kind)
	})

	t.Run("relative preference ignores baseUrl", func(t *testing.T) {
		entry := resolve(t, r, domain.ResolveRequest{
			From:        "/proj/src/deep/nested/c.ts",
			To:          "/proj/src/lib/index.ts",
			Settings:    settings,
			Preferences: domain.Preferences{ImportModuleSpecifier: domain.SpecifierRelative},
		})
		assert.Equal(t, []string{"../../lib"}, entry.ModuleSpecifiers)
	})

	t.Run("project-relative inside one package", func(t *testing.T) {
		entry := resolve(t, r, domain.ResolveRequest{
			From:        "/proj/src/deep/nested/c.ts",
			To:          "/proj/src/lib/index.ts",
			Settings:    settings,
			Preferences: domain.Preferences{ImportModuleSpecifier: domain.SpecifierProjectRelative},
		})
		assert.Equal(t, "../../lib", entry.ModuleSpecifiers[0])
	})
}

func TestResolver_Paths(t *testing.T) {
	r := newResolver(projectFS())

	entry := resolve(t, r, domain.ResolveRequest{
		From: "/proj/src/deep/nested/c.ts",
		To:   "/proj/src/lib/index.ts",
		Settings: domain.CompilerSettings{
			Paths: map[string][]string{"@lib/*": {"src/lib/*"}, "@lib": {"src/lib/index.ts"}},
		},
		Preferences: domain.Preferences{ImportModuleSpecifier: domain.SpecifierNonRelative},
	})

	assert.Equal(t, []string{"@lib", "../../lib"}, entry.ModuleSpecifiers)
	assert.Equal(t, domain.KindPaths, entry.Kind)
}

func TestResolver_SymlinkedPackage(t *testing.T) {
	files := fstest.MapFS{
		"proj/package.json":                 file(`{"name":"app","dependencies":{"shared":"workspace:*"}}`),
		"proj/src/a.ts":                     file(""),
		"proj/packages/shared/package.json": file(`{"name":"shared","main":"index.ts"}`),
		"proj/packages/shared/index.ts":     file(""),
		"proj/node_modules/shared":          &fstest.MapFile{Data: []byte("../packages/shared"), Mode: iofs.ModeSymlink},
	}
	r := newResolver(files)

	t.Run("redirect recorded", func(t *testing.T) {
		entry := resolve(t, r, domain.ResolveRequest{
			From: "/proj/src/a.ts",
			To:   "/proj/node_modules/shared/index.ts",
		})
		assert.Equal(t, []domain.ModulePath{
			{Path: "/proj/node_modules/shared/index.ts", IsInNodeModules: true},
			{Path: "/proj/packages/shared/index.ts", IsRedirect: true},
		}, entry.ModulePaths)
		assert.Equal(t, []string{"shared"}, entry.ModuleSpecifiers)
		assert.False(t, entry.IsBlockedByPackageJSONDependencies)
	})

	t.Run("preserve symlinks", func(t *testing.T) {
		entry := resolve(t, r, domain.ResolveRequest{
			From:     "/proj/src/a.ts",
			To:       "/proj/node_modules/shared/index.ts",
			Settings: domain.CompilerSettings{PreserveSymlinks: true},
		})
		assert.Len(t, entry.ModulePaths, 1)
	})
}

func TestResolver_RelativePathRejected(t *testing.T) {
	r := newResolver(projectFS())

	_, err := r.Resolve(context.Background(), domain.ResolveRequest{From: "src/a.ts", To: "/proj/src/b.ts"})

	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrPathNotAbsolute.Error())
	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "src/a.ts", zErr.Metadata()["path"])
}

func TestResolver_CanceledContext(t *testing.T) {
	r := newResolver(projectFS())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, domain.ResolveRequest{From: "/proj/src/a.ts", To: "/proj/src/b.ts"})

	require.ErrorIs(t, err, context.Canceled)
}
