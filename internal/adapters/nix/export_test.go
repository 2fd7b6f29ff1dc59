package nix

import (
	"context"
	"net/http"
	"time"

	"go.trai.ch/devshell/internal/core/domain"
)

// RunFunc mirrors runFunc for tests.
type RunFunc = func(ctx context.Context, env []string, args ...string) ([]byte, error)

// NewLicenseProbeWithRunner creates a LicenseProbe that runs fn instead of the nix binary.
func NewLicenseProbeWithRunner(cacheDir string, fn RunFunc) (*LicenseProbe, error) {
	return newLicenseProbe(cacheDir, fn)
}

// WithRunner replaces the nix invocation of the factory.
func (e *EnvFactory) WithRunner(fn RunFunc) *EnvFactory {
	e.run = fn
	return e
}

// NewManagerWithRunner creates a Manager that runs fn instead of the nix binary.
func NewManagerWithRunner(fn RunFunc) *Manager {
	return &Manager{run: fn}
}

// GenerateNixExprForTest exports generateNixExpr for testing purposes.
func GenerateNixExprForTest(desc *domain.EnvironmentDescriptor) string {
	return generateNixExpr(desc)
}

// ParseBuildResultsForTest exports parseBuildResults for testing purposes.
func ParseBuildResultsForTest(output []byte, installable string) (string, error) {
	return parseBuildResults(output, installable)
}

// GetHashForTest exports getHash for testing purposes.
func GetHashForTest(key string) string {
	return getHash(key)
}

// NewHTTPClientForTest exports newHTTPClient for testing purposes.
func NewHTTPClientForTest(timeout time.Duration, retries int) *http.Client {
	return newHTTPClient(timeout, retries)
}
