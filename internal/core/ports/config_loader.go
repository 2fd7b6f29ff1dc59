package ports

import "go.trai.ch/devshell/internal/core/domain"

// ConfigLoader defines the interface for loading the environment manifest.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the manifest starting at cwd, or reads path when it is not empty.
	Load(cwd, path string) (*domain.Manifest, error)
}
