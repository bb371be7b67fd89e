package domain

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// SpecifierPreference selects the style of module specifier written into imports.
type SpecifierPreference string

const (
	// SpecifierShortest picks whichever candidate specifier is shortest.
	SpecifierShortest SpecifierPreference = "shortest"
	// SpecifierProjectRelative prefers relative specifiers inside a package and
	// non-relative ones across packages.
	SpecifierProjectRelative SpecifierPreference = "project-relative"
	// SpecifierRelative always writes relative specifiers.
	SpecifierRelative SpecifierPreference = "relative"
	// SpecifierNonRelative writes baseUrl/paths based specifiers when possible.
	SpecifierNonRelative SpecifierPreference = "non-relative"
)

// Valid reports whether the preference is a known value. The empty value means "shortest".
func (p SpecifierPreference) Valid() bool {
	switch p {
	case "", SpecifierShortest, SpecifierProjectRelative, SpecifierRelative, SpecifierNonRelative:
		return true
	}
	return false
}

// EndingPreference selects how the tail of a relative specifier is written.
type EndingPreference string

const (
	// EndingAuto infers the ending from the project settings.
	EndingAuto EndingPreference = "auto"
	// EndingMinimal drops extensions and trailing /index.
	EndingMinimal EndingPreference = "minimal"
	// EndingIndex drops extensions but keeps /index.
	EndingIndex EndingPreference = "index"
	// EndingJS writes a .js extension.
	EndingJS EndingPreference = "js"
)

// Valid reports whether the ending is a known value. The empty value means "auto".
func (e EndingPreference) Valid() bool {
	switch e {
	case "", EndingAuto, EndingMinimal, EndingIndex, EndingJS:
		return true
	}
	return false
}

// AutoImportMode controls whether dependencies from package.json are offered as auto-imports.
type AutoImportMode string

const (
	// AutoImportAuto offers package.json dependencies when the project looks like it needs them.
	AutoImportAuto AutoImportMode = "auto"
	// AutoImportOn always offers package.json dependencies.
	AutoImportOn AutoImportMode = "on"
	// AutoImportOff never offers package.json dependencies.
	AutoImportOff AutoImportMode = "off"
)

// Valid reports whether the mode is a known value. The empty value means "auto".
func (m AutoImportMode) Valid() bool {
	switch m {
	case "", AutoImportAuto, AutoImportOn, AutoImportOff:
		return true
	}
	return false
}

// Preferences are the user-facing editor preferences delivered with each request.
//
// Only ImportModuleSpecifier, ImportModuleSpecifierEnding and IncludePackageJSONAutoImports
// change resolution output; they alone make up the Fingerprint. Every other field, including
// anything collected in Extra, can change freely without invalidating cached entries.
type Preferences struct {
	ImportModuleSpecifier         SpecifierPreference
	ImportModuleSpecifierEnding   EndingPreference
	IncludePackageJSONAutoImports AutoImportMode

	QuotePreference                   string
	IncludeCompletionsWithSnippetText bool
	OrganizeImportsIgnoreCase         bool
	Extra                             map[string]any
}

// Fingerprint identifies the resolution-relevant subset of a preference set.
type Fingerprint uint64

// String returns the fingerprint as fixed-width hex.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// Fingerprint derives the preference fingerprint. Empty values hash the same as their
// documented defaults so that an omitted preference and an explicit default share entries.
func (p Preferences) Fingerprint() Fingerprint {
	spec := p.ImportModuleSpecifier
	if spec == "" {
		spec = SpecifierShortest
	}
	ending := p.ImportModuleSpecifierEnding
	if ending == "" {
		ending = EndingAuto
	}
	auto := p.IncludePackageJSONAutoImports
	if auto == "" {
		auto = AutoImportAuto
	}

	d := xxhash.New()
	_, _ = d.WriteString(string(spec))
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(string(ending))
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(string(auto))
	return Fingerprint(d.Sum64())
}

// Validate checks that every fingerprint field holds a known value.
func (p Preferences) Validate() error {
	if !p.ImportModuleSpecifier.Valid() {
		return withField(ErrInvalidPreference, "importModuleSpecifierPreference", p.ImportModuleSpecifier)
	}
	if !p.ImportModuleSpecifierEnding.Valid() {
		return withField(ErrInvalidPreference, "importModuleSpecifierEnding", p.ImportModuleSpecifierEnding)
	}
	if !p.IncludePackageJSONAutoImports.Valid() {
		return withField(ErrInvalidPreference, "includePackageJsonAutoImports", p.IncludePackageJSONAutoImports)
	}
	return nil
}
