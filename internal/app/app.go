// Package app implements the application layer for modspec.
package app

import (
	"context"
	"io"

	"go.trai.ch/modspec/internal/adapters/speccache"
	"go.trai.ch/modspec/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/modspec/internal/core/ports"
	"go.trai.ch/zerr"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

// App opens projects and wires them to the shared collaborators.
type App struct {
	configLoader ports.ConfigLoader
	resolver     ports.Resolver
	probe        ports.FileProbe
	tracer       ports.Tracer
	observer     ports.CacheObserver
	watcher      ports.Watcher
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	resolver ports.Resolver,
	probe ports.FileProbe,
	tracer ports.Tracer,
	observer ports.CacheObserver,
	watcher ports.Watcher,
	log ports.Logger,
) *App {
	if tracer == nil {
		tracer = telemetry.NewNoOpTracer()
	}
	return &App{
		configLoader: loader,
		resolver:     resolver,
		probe:        probe,
		tracer:       tracer,
		observer:     observer,
		watcher:      watcher,
		logger:       log,
	}
}

// Open loads the configuration found from cwd and creates the project session for it.
func (a *App) Open(cwd string) (*Project, error) {
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return newProject(cfg, a), nil
}

// ResolveOptions describes a one-shot resolution.
type ResolveOptions struct {
	From string
	To   string
	Mode domain.ResolutionMode
}

// Resolve opens the project at cwd, computes the specifiers for one import and
// closes the project again.
func (a *App) Resolve(ctx context.Context, cwd string, opts ResolveOptions) (*Result, error) {
	project, err := a.Open(cwd)
	if err != nil {
		return nil, err
	}
	defer project.Close()

	return project.ModuleSpecifiers(ctx, opts.From, opts.To, opts.Mode, nil)
}

// Serve opens the project at cwd and answers requests from in until in is
// exhausted or ctx is canceled.
func (a *App) Serve(ctx context.Context, cwd string, in io.Reader, out io.Writer) error {
	project, err := a.Open(cwd)
	if err != nil {
		return err
	}
	defer project.Close()

	return project.Serve(ctx, in, out)
}

// cacheOptions derives the cache options for a project configuration.
func (a *App) cacheOptions(cfg *domain.ProjectConfig, onWatch func([]string)) []speccache.Option {
	opts := []speccache.Option{
		speccache.WithSettings(cfg.Settings),
		speccache.WithPartialManifestInvalidation(cfg.Cache.PartialManifestInvalidation),
		speccache.WithWatchHook(onWatch),
	}
	if a.observer != nil {
		opts = append(opts, speccache.WithObserver(a.observer))
	}
	return opts
}
