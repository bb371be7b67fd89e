// Package domain contains the core types of the module-specifier cache.
package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidPreference is returned when a preference holds an unknown value.
	ErrInvalidPreference = zerr.New("invalid preference value")

	// ErrInvalidCompilerSetting is returned when a compiler setting holds an unknown value.
	ErrInvalidCompilerSetting = zerr.New("invalid compiler setting")

	// ErrInvalidResolutionMode is returned when a resolution mode cannot be parsed.
	ErrInvalidResolutionMode = zerr.New("invalid resolution mode, expected 'commonjs', 'esm' or 'unspecified'")

	// ErrInvalidDebounce is returned when the configured debounce window is negative.
	ErrInvalidDebounce = zerr.New("debounce window must not be negative")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrManifestReadFailed is returned when a package.json cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read package.json")

	// ErrManifestParseFailed is returned when a package.json is not valid JSON.
	ErrManifestParseFailed = zerr.New("failed to parse package.json")

	// ErrPathNotAbsolute is returned when a resolution request names a relative file.
	ErrPathNotAbsolute = zerr.New("path must be absolute")

	// ErrResolutionFailed is returned when the resolution algorithm fails.
	ErrResolutionFailed = zerr.New("failed to resolve module specifier")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrWatchAddFailed is returned when a directory cannot be added to the watcher.
	ErrWatchAddFailed = zerr.New("failed to watch directory")

	// ErrInvalidRequest is returned when a session request cannot be decoded.
	ErrInvalidRequest = zerr.New("invalid request")

	// ErrUnknownOperation is returned when a session request names an unknown operation.
	ErrUnknownOperation = zerr.New("unknown operation")

	// ErrProjectClosed is returned when a closed project is queried.
	ErrProjectClosed = zerr.New("project is closed")
)

func withField(err error, field string, value any) error {
	return zerr.With(zerr.With(err, "field", field), "value", value)
}
