package domain

// ResolutionMode is the module format an import is written for.
type ResolutionMode uint8

const (
	// ModeUnspecified lets the importing file's format decide.
	ModeUnspecified ResolutionMode = iota
	// ModeCommonJS resolves as a require() call.
	ModeCommonJS
	// ModeESM resolves as an ECMAScript import.
	ModeESM
)

// String returns the configuration spelling of the mode.
func (m ResolutionMode) String() string {
	switch m {
	case ModeCommonJS:
		return "commonjs"
	case ModeESM:
		return "esm"
	default:
		return "unspecified"
	}
}

// ParseResolutionMode parses the spelling produced by String.
// The empty string parses as ModeUnspecified.
func ParseResolutionMode(s string) (ResolutionMode, error) {
	switch s {
	case "", "unspecified":
		return ModeUnspecified, nil
	case "commonjs", "cjs", "require":
		return ModeCommonJS, nil
	case "esm", "import":
		return ModeESM, nil
	}
	return ModeUnspecified, withField(ErrInvalidResolutionMode, "mode", s)
}

// CacheKey identifies one cached resolution. It is comparable and used directly as a map key.
type CacheKey struct {
	From        Path
	To          Path
	Fingerprint Fingerprint
	Mode        ResolutionMode
}

// NewCacheKey derives the key for an import of to from within from.
func NewCacheKey(from, to string, prefs Preferences, mode ResolutionMode) CacheKey {
	return CacheKey{
		From:        NewPath(from),
		To:          NewPath(to),
		Fingerprint: prefs.Fingerprint(),
		Mode:        mode,
	}
}

// ResolveRequest is a single question put to the resolution algorithm.
type ResolveRequest struct {
	From        string
	To          string
	Preferences Preferences
	Mode        ResolutionMode
	Settings    CompilerSettings
	// Root is the project root; non-relative specifiers are computed against it
	// when no baseUrl is configured.
	Root string
}

// Key derives the cache key for the request.
func (r ResolveRequest) Key() CacheKey {
	return NewCacheKey(r.From, r.To, r.Preferences, r.Mode)
}
