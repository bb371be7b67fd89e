// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/modspec/internal/adapters/config"
	_ "go.trai.ch/modspec/internal/adapters/fs"
	_ "go.trai.ch/modspec/internal/adapters/logger"
	_ "go.trai.ch/modspec/internal/adapters/nodefs"
	_ "go.trai.ch/modspec/internal/adapters/telemetry"
	_ "go.trai.ch/modspec/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/modspec/internal/app"
)
