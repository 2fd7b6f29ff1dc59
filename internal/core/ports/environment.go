package ports

import (
	"context"

	"go.trai.ch/devshell/internal/core/domain"
)

// ShellFactory turns resolved descriptors into activatable shell environments.
//
// Implementations are responsible for:
//   - Rendering the descriptor as an expression the external build system understands
//   - Realizing the packages and hooks of the descriptor
//   - Returning environment variables (PATH, PYTHONPATH, etc.) for the shell
//
//go:generate go run go.uber.org/mock/mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type ShellFactory interface {
	// Expression renders the descriptor as a deterministic shell expression.
	Expression(desc *domain.EnvironmentDescriptor) string

	// GetEnvironment realizes the descriptor and returns "KEY=VALUE" strings, sorted.
	GetEnvironment(ctx context.Context, desc *domain.EnvironmentDescriptor) ([]string, error)
}

// PackageRealizer handles the fetching and building of resolved packages.
type PackageRealizer interface {
	// Realize ensures the package is available in the store.
	// Returns the absolute store path of its default output.
	Realize(ctx context.Context, ref domain.PackageRef) (storePath string, err error)
}

// CommandRunner executes commands inside a realized environment.
type CommandRunner interface {
	// Run executes command with env merged over the calling process environment.
	Run(ctx context.Context, command []string, env []string) error
}
