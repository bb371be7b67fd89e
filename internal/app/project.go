package app

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/modspec/internal/adapters/speccache"
	"go.trai.ch/modspec/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one module specifier query.
type Result struct {
	Entry  *domain.CacheEntry
	Cached bool
}

// Project is the session for one analyzed project. It owns the project's cache
// and routes watcher events and configuration reloads into it.
type Project struct {
	app   *App
	cache *speccache.Cache

	mu       sync.Mutex
	config   *domain.ProjectConfig
	watching bool
	closed   bool
}

func newProject(cfg *domain.ProjectConfig, a *App) *Project {
	p := &Project{app: a, config: cfg}
	p.cache = speccache.New(cfg.Root, a.probe, a.logger, a.cacheOptions(cfg, p.watch)...)
	p.cache.UpdatePreferences(cfg.Preferences)
	return p
}

// Root returns the project root directory.
func (p *Project) Root() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config.Root
}

// Config returns a copy of the configuration in effect.
func (p *Project) Config() domain.ProjectConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.config
}

// Cache returns the project's module specifier cache.
func (p *Project) Cache() *speccache.Cache {
	return p.cache
}

// ModuleSpecifiers returns the module paths and specifiers for importing to from
// within from. Cached entries are served as is; on a miss the resolver computes the
// entry and it is stored for later queries. A nil prefs uses the configured preferences.
func (p *Project) ModuleSpecifiers(
	ctx context.Context,
	from, to string,
	mode domain.ResolutionMode,
	prefs *domain.Preferences,
) (*Result, error) {
	// Taken before the configuration is read, so a reload or a change that lands
	// while resolving keeps the result out of the cache.
	generation := p.cache.Generation()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, domain.ErrProjectClosed
	}
	cfg := *p.config
	p.mu.Unlock()

	effective := cfg.Preferences
	if prefs != nil {
		effective = *prefs
		p.cache.UpdatePreferences(effective)
	}

	ctx, span := p.app.tracer.Start(ctx, "modspec.ModuleSpecifiers")
	defer span.End()
	span.SetAttribute("from", from)
	span.SetAttribute("to", to)
	span.SetAttribute("mode", mode.String())

	if entry, ok := p.cache.Get(from, to, effective, mode); ok && entry.HasSpecifiers() {
		span.SetAttribute("cache.hit", true)
		return &Result{Entry: entry, Cached: true}, nil
	}
	span.SetAttribute("cache.hit", false)

	entry, err := p.app.resolver.Resolve(ctx, domain.ResolveRequest{
		From:        from,
		To:          to,
		Preferences: effective,
		Mode:        mode,
		Settings:    cfg.Settings,
		Root:        cfg.Root,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("specifiers", slices.Clone(entry.ModuleSpecifiers))

	if !p.cache.SetIfCurrent(generation, from, to, effective, mode, entry) {
		span.SetAttribute("cache.stale", true)
	}
	return &Result{Entry: entry}, nil
}

// HandleFileChanges applies one debounced batch of changes. A change to the
// configuration file reloads it before the cache classifies the batch.
func (p *Project) HandleFileChanges(changes []domain.FileChange) domain.Decision {
	configPath := p.configPath()
	for _, change := range changes {
		if filepath.Clean(change.Path) == configPath {
			if err := p.Reload(); err != nil {
				p.app.logger.Error(err)
			}
			break
		}
	}
	return p.cache.HandleFileChanges(changes)
}

// Reload reads the configuration again and applies preference and setting changes
// to the cache. On failure the previous configuration stays in effect.
func (p *Project) Reload() error {
	cfg, err := p.app.configLoader.Load(p.Root())
	if err != nil {
		return zerr.Wrap(err, "failed to reload configuration")
	}

	p.mu.Lock()
	p.config = cfg
	p.mu.Unlock()

	if p.cache.UpdatePreferences(cfg.Preferences) {
		p.app.logger.Info("import preferences changed, cached specifiers for the previous preferences are no longer served")
	}
	p.cache.UpdateSettings(cfg.Settings)
	return nil
}

// Serve watches the project and answers JSON-line requests read from in, writing
// one response line per request to out. It returns when in is exhausted or ctx
// is canceled.
func (p *Project) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := p.app.watcher
	if err := w.Start(ctx, p.Root()); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(p.Config().Cache.Debounce, func(changes []domain.FileChange) {
		p.HandleFileChanges(changes)
	})

	p.mu.Lock()
	p.watching = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.watching = false
		p.mu.Unlock()
	}()
	p.watch(p.cache.WatchedDirectories())

	g, gctx := errgroup.WithContext(ctx)

	// Event pump
	g.Go(func() error {
		for change := range w.Events() {
			debouncer.Add(change)
		}
		return nil
	})

	// Watcher shutdown
	g.Go(func() error {
		<-gctx.Done()
		return w.Stop()
	})

	// Request loop
	g.Go(func() error {
		defer cancel()
		return p.serveRequests(gctx, in, out)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close disposes the cache. Later queries fail with ErrProjectClosed.
func (p *Project) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cache.Dispose()
}

// watch adds directories that joined the cache scope to the running watcher.
func (p *Project) watch(dirs []string) {
	p.mu.Lock()
	watching := p.watching
	p.mu.Unlock()
	if !watching {
		return
	}
	for _, dir := range dirs {
		if err := p.app.watcher.Add(dir); err != nil {
			p.app.logger.Warn("watcher: " + err.Error())
		}
	}
}

func (p *Project) configPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.config.Path != "" {
		return filepath.Clean(p.config.Path)
	}
	return filepath.Join(p.config.Root, domain.ConfigFileName)
}
