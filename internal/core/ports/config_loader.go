package ports

import "go.trai.ch/modspec/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds modspec.yaml by walking up from cwd and returns the project configuration.
	// When no file exists, defaults rooted at cwd are returned.
	Load(cwd string) (*domain.ProjectConfig, error)
}
