package app

import (
	"bufio"
	"context"
	"io"
	"path/filepath"
	"slices"

	"github.com/goccy/go-json"
	"go.trai.ch/modspec/internal/adapters/speccache"
	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/zerr"
)

// Session operations.
const (
	OpResolve = "resolve"
	OpCount   = "count"
	OpStats   = "stats"
	OpClear   = "clear"
)

// maxRequestSize bounds a single request line.
const maxRequestSize = 1 << 20

// Request is one line of the serve protocol.
type Request struct {
	ID          string              `json:"id,omitempty"`
	Op          string              `json:"op"`
	From        string              `json:"from,omitempty"`
	To          string              `json:"to,omitempty"`
	Mode        string              `json:"mode,omitempty"`
	Preferences *RequestPreferences `json:"preferences,omitempty"`
}

// RequestPreferences overrides the configured preferences for one request.
// Omitted fields keep their configured values.
type RequestPreferences struct {
	ImportModuleSpecifierPreference string `json:"importModuleSpecifierPreference,omitempty"`
	ImportModuleSpecifierEnding     string `json:"importModuleSpecifierEnding,omitempty"`
	IncludePackageJSONAutoImports   string `json:"includePackageJsonAutoImports,omitempty"`
	QuotePreference                 string `json:"quotePreference,omitempty"`
}

// ModulePath is the wire form of domain.ModulePath.
type ModulePath struct {
	Path            string `json:"path"`
	IsInNodeModules bool   `json:"isInNodeModules,omitempty"`
	IsRedirect      bool   `json:"isRedirect,omitempty"`
}

// Response answers one Request.
type Response struct {
	ID    string `json:"id,omitempty"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	ModuleSpecifiers                   []string     `json:"moduleSpecifiers,omitempty"`
	ModulePaths                        []ModulePath `json:"modulePaths,omitempty"`
	Kind                               string       `json:"kind,omitempty"`
	IsBlockedByPackageJSONDependencies bool         `json:"isBlockedByPackageJsonDependencies,omitempty"`
	Cached                             bool         `json:"cached,omitempty"`

	Count *int             `json:"count,omitempty"`
	Stats *speccache.Stats `json:"stats,omitempty"`
}

// NewResponse converts a query result to its wire form.
func NewResponse(id string, result *Result) Response {
	resp := Response{
		ID:                                 id,
		OK:                                 true,
		ModuleSpecifiers:                   slices.Clone(result.Entry.ModuleSpecifiers),
		Kind:                               string(result.Entry.Kind),
		IsBlockedByPackageJSONDependencies: result.Entry.IsBlockedByPackageJSONDependencies,
		Cached:                             result.Cached,
	}
	for _, mp := range result.Entry.ModulePaths {
		resp.ModulePaths = append(resp.ModulePaths, ModulePath(mp))
	}
	return resp
}

// HandleRequest answers a single decoded request.
func (p *Project) HandleRequest(ctx context.Context, req Request) Response {
	switch req.Op {
	case OpResolve:
		return p.handleResolve(ctx, req)
	case OpCount:
		count := p.cache.Count()
		return Response{ID: req.ID, OK: true, Count: &count}
	case OpStats:
		stats := p.cache.Stats()
		return Response{ID: req.ID, OK: true, Stats: &stats}
	case OpClear:
		p.cache.Clear()
		count := 0
		return Response{ID: req.ID, OK: true, Count: &count}
	default:
		return errorResponse(req.ID, zerr.With(domain.ErrUnknownOperation, "op", req.Op))
	}
}

func (p *Project) handleResolve(ctx context.Context, req Request) Response {
	mode, err := domain.ParseResolutionMode(req.Mode)
	if err != nil {
		return errorResponse(req.ID, err)
	}
	if req.From == "" || req.To == "" {
		return errorResponse(req.ID, zerr.With(domain.ErrInvalidRequest, "reason", "resolve needs from and to"))
	}

	var prefs *domain.Preferences
	if req.Preferences != nil {
		merged := p.Config().Preferences
		req.Preferences.apply(&merged)
		if err := merged.Validate(); err != nil {
			return errorResponse(req.ID, err)
		}
		prefs = &merged
	}

	result, err := p.ModuleSpecifiers(ctx, p.abs(req.From), p.abs(req.To), mode, prefs)
	if err != nil {
		return errorResponse(req.ID, err)
	}
	return NewResponse(req.ID, result)
}

func (rp *RequestPreferences) apply(prefs *domain.Preferences) {
	if rp.ImportModuleSpecifierPreference != "" {
		prefs.ImportModuleSpecifier = domain.SpecifierPreference(rp.ImportModuleSpecifierPreference)
	}
	if rp.ImportModuleSpecifierEnding != "" {
		prefs.ImportModuleSpecifierEnding = domain.EndingPreference(rp.ImportModuleSpecifierEnding)
	}
	if rp.IncludePackageJSONAutoImports != "" {
		prefs.IncludePackageJSONAutoImports = domain.AutoImportMode(rp.IncludePackageJSONAutoImports)
	}
	if rp.QuotePreference != "" {
		prefs.QuotePreference = rp.QuotePreference
	}
}

// abs interprets a relative request path against the project root.
func (p *Project) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.Root(), path)
}

// serveRequests answers request lines until in is exhausted or ctx is canceled.
func (p *Project) serveRequests(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
		for scanner.Scan() {
			line := slices.Clone(scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return zerr.Wrap(err, "failed to read requests")
					}
				default:
				}
				return nil
			}
			if len(line) == 0 {
				continue
			}
			if err := enc.Encode(p.decodeAndHandle(ctx, line)); err != nil {
				return zerr.Wrap(err, "failed to write response")
			}
		}
	}
}

func (p *Project) decodeAndHandle(ctx context.Context, line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return errorResponse("", zerr.Wrap(err, domain.ErrInvalidRequest.Error()))
	}
	return p.HandleRequest(ctx, req)
}

func errorResponse(id string, err error) Response {
	return Response{ID: id, Error: err.Error()}
}
