package domain

import (
	"slices"

	"github.com/cespare/xxhash/v2"
)

// ModuleResolutionKind is the compiler's module resolution strategy.
type ModuleResolutionKind string

const (
	ResolutionClassic  ModuleResolutionKind = "classic"
	ResolutionNode10   ModuleResolutionKind = "node10"
	ResolutionNode16   ModuleResolutionKind = "node16"
	ResolutionNodeNext ModuleResolutionKind = "nodenext"
	ResolutionBundler  ModuleResolutionKind = "bundler"
)

// Valid reports whether the strategy is known. The empty value means "node10".
func (k ModuleResolutionKind) Valid() bool {
	switch k {
	case "", ResolutionClassic, ResolutionNode10, ResolutionNode16, ResolutionNodeNext, ResolutionBundler:
		return true
	}
	return false
}

// CompilerSettings holds the project compiler options known to the service.
//
// ModuleResolution, BaseURL, Paths, RootDirs, PreserveSymlinks and
// AllowImportingTSExtensions influence resolution output and form the settings
// fingerprint. Target and Strict are carried for completeness only.
type CompilerSettings struct {
	ModuleResolution           ModuleResolutionKind
	BaseURL                    string
	Paths                      map[string][]string
	RootDirs                   []string
	PreserveSymlinks           bool
	AllowImportingTSExtensions bool

	Target string
	Strict bool
}

// Fingerprint derives a hash over the resolution-affecting settings.
// Map iteration order does not influence the result.
func (s CompilerSettings) Fingerprint() Fingerprint {
	kind := s.ModuleResolution
	if kind == "" {
		kind = ResolutionNode10
	}

	d := xxhash.New()
	write := func(v string) {
		_, _ = d.WriteString(v)
		_, _ = d.Write([]byte{0})
	}
	flag := func(b bool) {
		if b {
			write("1")
			return
		}
		write("0")
	}

	write(string(kind))
	write(s.BaseURL)

	patterns := make([]string, 0, len(s.Paths))
	for pattern := range s.Paths {
		patterns = append(patterns, pattern)
	}
	slices.Sort(patterns)
	for _, pattern := range patterns {
		write(pattern)
		for _, target := range s.Paths[pattern] {
			write(target)
		}
		write("")
	}
	write("")

	for _, dir := range s.RootDirs {
		write(dir)
	}
	write("")

	flag(s.PreserveSymlinks)
	flag(s.AllowImportingTSExtensions)
	return Fingerprint(d.Sum64())
}

// Validate checks the settings for unknown enumerated values.
func (s CompilerSettings) Validate() error {
	if !s.ModuleResolution.Valid() {
		return withField(ErrInvalidCompilerSetting, "moduleResolution", s.ModuleResolution)
	}
	return nil
}
