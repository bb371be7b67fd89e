package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modspec/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/modspec/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/modspec/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/modspec/internal/adapters/nodefs"    //nolint:depguard // Wired in app layer
	"go.trai.ch/modspec/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/modspec/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/modspec/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			nodefs.NodeID,
			fs.ProbeNodeID,
			telemetry.TracerNodeID,
			telemetry.ObserverNodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:    app,
				Logger: log,
			}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.Resolver](ctx)
	if err != nil {
		return nil, err
	}

	probe, err := graft.Dep[ports.FileProbe](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	observer, err := graft.Dep[ports.CacheObserver](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, resolver, probe, tracer, observer, w, log), nil
}
