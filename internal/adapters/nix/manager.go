package nix

import (
	"context"
	"encoding/json"

	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/core/ports"
	"go.trai.ch/zerr"
	nixstore "zombiezen.com/go/nix"
)

// Manager implements ports.PackageRealizer using the Nix CLI.
type Manager struct {
	run runFunc
}

// NewManager creates a PackageRealizer backed by the Nix CLI.
func NewManager() *Manager {
	return &Manager{run: runNix}
}

// unfreeEnv lets nixpkgs evaluate unfree packages; nix only reads it with --impure.
var unfreeEnv = []string{"NIXPKGS_ALLOW_UNFREE=1"}

// Realize ensures the package is available in the Nix store.
// Returns the store path of its default output.
func (m *Manager) Realize(ctx context.Context, ref domain.PackageRef) (string, error) {
	installable := ref.Installable()

	// --no-link avoids creating result symlinks
	args := []string{"build", "--json", "--no-link"}
	var env []string
	if ref.Unfree {
		args = append(args, "--impure")
		env = unfreeEnv
	}

	output, err := m.run(ctx, env, append(args, installable)...)
	if err != nil {
		return "", zerr.With(cliError(domain.ErrNixInstallFailed, err), "installable", installable)
	}

	return parseBuildResults(output, installable)
}

// parseBuildResults extracts the validated "out" store path from `nix build --json` output.
func parseBuildResults(output []byte, installable string) (string, error) {
	var results buildResults
	if err := json.Unmarshal(output, &results); err != nil {
		parseErr := zerr.Wrap(err, "failed to parse nix build JSON output")
		return "", zerr.With(parseErr, "installable", installable)
	}

	if len(results) == 0 {
		emptyErr := zerr.With(zerr.Wrap(domain.ErrNixInstallFailed, "empty build results from nix build"), "installable", installable)
		return "", emptyErr
	}

	storePath, ok := results[0].Outputs["out"]
	if !ok || storePath == "" {
		outErr := zerr.Wrap(domain.ErrNixInstallFailed, "no 'out' output found in build results")
		return "", zerr.With(outErr, "installable", installable)
	}

	parsed, err := nixstore.ParseStorePath(storePath)
	if err != nil {
		pathErr := zerr.With(zerr.Wrap(domain.ErrInvalidStorePath, err.Error()), "path", storePath)
		return "", zerr.With(pathErr, "installable", installable)
	}

	return string(parsed), nil
}

var _ ports.PackageRealizer = (*Manager)(nil)
