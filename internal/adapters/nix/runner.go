package nix

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/zerr"
)

// experimentalFeatures enables the flake-aware CLI on installations that have not opted in.
var experimentalFeatures = []string{"--extra-experimental-features", "nix-command flakes"}

// runFunc runs the nix CLI with env added to the process environment and returns its standard output.
type runFunc func(ctx context.Context, env []string, args ...string) ([]byte, error)

// runNix executes the nix binary. Failed runs carry the trimmed stderr as metadata.
func runNix(ctx context.Context, env []string, args ...string) ([]byte, error) {
	//nolint:gosec // arguments are generated from resolved package references
	cmd := exec.CommandContext(ctx, "nix", append(append([]string{}, experimentalFeatures...), args...)...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, zerr.With(err, "stderr", strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// cliError classifies a failed nix invocation as kind and keeps the metadata of err.
func cliError(kind, err error) error {
	wrapped := zerr.Wrap(kind, err.Error())
	var zErr *zerr.Error
	if errors.As(err, &zErr) {
		for key, value := range zErr.Metadata() {
			wrapped = zerr.With(wrapped, key, value)
		}
	}
	return wrapped
}
