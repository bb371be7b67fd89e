package speccache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modspec/internal/adapters/speccache"
	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/modspec/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestStore_RecordsScopeWithoutManifest(t *testing.T) {
	t.Parallel()

	s := speccache.NewStore("/proj", nil)
	key := domain.NewCacheKey("/proj/src/a.ts", "/proj/src/b.ts", domain.Preferences{}, domain.ModeUnspecified)

	added := s.Set(key, relativeEntry())

	assert.Equal(t, []string{"/proj", "/proj/src"}, added)
	assert.True(t, s.Scope().HasManifestDir("/proj/src"))
	assert.True(t, s.Scope().HasFingerprint(key.Fingerprint))
	assert.Empty(t, s.Scope().NodeModulesRoots())
}

func TestStore_RecordsScopeThroughProbe(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	probe := mocks.NewMockFileProbe(ctrl)
	probe.EXPECT().NearestManifestDir("/proj/src").Return("/proj", true).AnyTimes()
	probe.EXPECT().NearestManifestDir("/proj/node_modules/.pnpm/lodash@4/node_modules/lodash").
		Return("/proj/node_modules/.pnpm/lodash@4/node_modules/lodash", true)
	probe.EXPECT().Readlink(gomock.Any()).DoAndReturn(func(path string) (string, bool) {
		if path == "/proj/node_modules/.pnpm/lodash@4/node_modules/lodash" {
			return "../../lodash-src", true
		}
		return "", false
	}).AnyTimes()

	s := speccache.NewStore("/proj", probe)
	to := "/proj/node_modules/.pnpm/lodash@4/node_modules/lodash/index.d.ts"
	key := domain.NewCacheKey("/proj/src/a.ts", to, domain.Preferences{}, domain.ModeUnspecified)

	s.Set(key, &domain.CacheEntry{
		ModulePaths:      []domain.ModulePath{{Path: to, IsInNodeModules: true}},
		ModuleSpecifiers: []string{"lodash"},
	})

	assert.Equal(t, []string{
		"/proj/node_modules",
		"/proj/node_modules/.pnpm/lodash@4/node_modules",
	}, s.Scope().NodeModulesRoots())
	assert.Equal(t, map[string]string{
		"/proj/node_modules/.pnpm/lodash@4/node_modules/lodash": "../../lodash-src",
	}, s.Scope().Symlinks())
}

func TestStore_ClearAllExceptLeafManifestDirs(t *testing.T) {
	t.Parallel()

	s := speccache.NewStore("/proj", nil)
	s.Scope().SetSettings(domain.CompilerSettings{}.Fingerprint())
	prefs := domain.Preferences{}
	local := domain.NewCacheKey("/proj/src/a.ts", "/proj/src/b.ts", prefs, domain.ModeUnspecified)
	other := domain.NewCacheKey("/proj/src/a.ts", "/proj/lib/c.ts", prefs, domain.ModeUnspecified)
	s.Set(local, relativeEntry())
	s.Set(other, &domain.CacheEntry{ModuleSpecifiers: []string{"../lib/c"}})

	t.Run("nothing outside the leaves", func(t *testing.T) {
		removed := s.ClearAllExceptLeafManifestDirs([]string{"/proj", "/proj/src", "/proj/lib"})
		assert.Equal(t, 0, removed)
		assert.Equal(t, 2, s.Count())
	})

	t.Run("stale directory drops its dependents", func(t *testing.T) {
		removed := s.ClearAllExceptLeafManifestDirs([]string{"/proj", "/proj/src"})
		assert.Equal(t, 1, removed)
		assert.Equal(t, 1, s.Count())

		_, ok := s.Get(local)
		assert.True(t, ok)
		assert.False(t, s.Scope().HasManifestDir("/proj/lib"))
		_, hasSettings := s.Scope().Settings()
		assert.True(t, hasSettings)
	})

	t.Run("clear resets the scope", func(t *testing.T) {
		s.Clear()
		assert.Equal(t, 0, s.Count())
		assert.True(t, s.Scope().IsEmpty())
		_, hasSettings := s.Scope().Settings()
		assert.False(t, hasSettings)
	})
}

func TestStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	s := speccache.NewStore("/proj", nil)
	key := domain.NewCacheKey("/proj/src/a.ts", "/proj/src/b.ts", domain.Preferences{}, domain.ModeUnspecified)
	s.Set(key, relativeEntry())

	first, ok := s.Get(key)
	require.True(t, ok)
	first.ModulePaths[0].Path = "/tmp/changed"

	second, _ := s.Get(key)
	assert.Equal(t, siblingTS, second.ModulePaths[0].Path)
}

func TestStore_SetNilEntry(t *testing.T) {
	t.Parallel()

	s := speccache.NewStore("/proj", nil)
	key := domain.NewCacheKey("/proj/src/a.ts", "/proj/src/b.ts", domain.Preferences{}, domain.ModeUnspecified)

	require.NotPanics(t, func() { s.Set(key, nil) })

	entry, ok := s.Get(key)
	require.True(t, ok)
	assert.False(t, entry.HasSpecifiers())
	assert.Equal(t, 1, s.Count())
}
