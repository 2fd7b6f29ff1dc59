package nix

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// EnvFactory implements ports.ShellFactory using `nix print-dev-env`.
type EnvFactory struct {
	cacheDir     string
	run          runFunc
	requestGroup singleflight.Group
}

// NewEnvFactory creates a ShellFactory caching environments below the settings cache directory.
func NewEnvFactory(settings domain.Settings) *EnvFactory {
	return NewEnvFactoryWithCache(domain.EnvCachePath(settings.CacheDir))
}

// NewEnvFactoryWithCache creates a ShellFactory backed by Nix with a specific cache directory.
func NewEnvFactoryWithCache(cacheDir string) *EnvFactory {
	return &EnvFactory{
		cacheDir: cacheDir,
		run:      runNix,
	}
}

// Expression renders the descriptor as a Nix expression.
func (e *EnvFactory) Expression(desc *domain.EnvironmentDescriptor) string {
	return generateNixExpr(desc)
}

// GetEnvironment realizes the descriptor and returns its variables as sorted "KEY=VALUE" strings.
func (e *EnvFactory) GetEnvironment(ctx context.Context, desc *domain.EnvironmentDescriptor) ([]string, error) {
	envID := desc.ID()

	// Wrap the expensive operation in singleflight to prevent cache stampedes.
	// It runs detached from the caller that started it.
	flight := e.requestGroup.DoChan(envID, func() (any, error) {
		detached := context.WithoutCancel(ctx)

		cachePath := filepath.Join(e.cacheDir, envID+".json")
		if cachedEnv, err := LoadEnvFromCache(cachePath); err == nil {
			return cachedEnv, nil
		}

		tmpPath, cleanupFn, err := createNixTempFile(generateNixExpr(desc))
		if err != nil {
			return nil, err
		}
		defer cleanupFn()

		output, err := e.run(detached, nil, "print-dev-env", "--impure", "--json", "--file", tmpPath)
		if err != nil {
			return nil, zerr.With(cliError(domain.ErrNixShellFailed, err), "platform", desc.Platform.String())
		}

		env, err := ParseNixDevEnv(output)
		if err != nil {
			return nil, err
		}

		_ = SaveEnvToCache(cachePath, env)

		return env, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, zerr.Wrap(ctx.Err(), "environment realization canceled")
	case res = <-flight:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	env, ok := res.Val.([]string)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight: %T", res.Val)
	}
	return slices.Clone(env), nil
}

// createNixTempFile creates a temporary file with the given Nix expression.
func createNixTempFile(nixExpr string) (tmpPath string, cleanup func(), err error) {
	tmpFile, err := os.CreateTemp("", "devshell-env-*.nix")
	if err != nil {
		return "", nil, zerr.Wrap(err, "failed to create temp nix file")
	}

	tmpPath = tmpFile.Name()
	cleanup = func() {
		_ = os.Remove(tmpPath)
	}

	if _, writeErr := tmpFile.WriteString(nixExpr); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, zerr.Wrap(writeErr, "failed to write nix expression")
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, zerr.Wrap(closeErr, "failed to close temp nix file")
	}

	return tmpPath, cleanup, nil
}

// ParseNixDevEnv parses the JSON output from nix print-dev-env and extracts environment variables.
func ParseNixDevEnv(jsonData []byte) ([]string, error) {
	var output nixDevEnvOutput
	if err := json.Unmarshal(jsonData, &output); err != nil {
		return nil, zerr.Wrap(domain.ErrNixShellFailed, "failed to unmarshal nix output: "+err.Error())
	}

	env := make([]string, 0, len(output.Variables))
	for key, variable := range output.Variables {
		if !ShouldIncludeVar(key) {
			continue
		}

		var valueStr string
		switch v := variable.Value.(type) {
		case string:
			valueStr = v
		case []any:
			// Arrays are PATH-like
			parts := make([]string, len(v))
			for i, part := range v {
				if s, ok := part.(string); ok {
					parts[i] = s
				}
			}
			valueStr = strings.Join(parts, ":")
		default:
			continue
		}

		env = append(env, key+"="+valueStr)
	}

	slices.Sort(env)
	return env, nil
}

// ShouldIncludeVar determines if an environment variable should be included.
// Interactive shell and user-specific variables keep the values of the calling shell.
func ShouldIncludeVar(key string) bool {
	exclude := []string{
		"TERM",
		"SHELL",
		"EDITOR",
		"VISUAL",
		"PAGER",
		"LESS",
		"HOME",
		"USER",
		"LOGNAME",
		"PS1",
		"PS2",
		"SHLVL",
		"PWD",
		"OLDPWD",
		"_",
		"TMPDIR",
		"TEMP",
		"TMP",
		"NIX_BUILD_TOP",
		"NIX_BUILD_CORES",
		"NIX_LOG_FD",
		"shellHook",
	}

	return !slices.Contains(exclude, key)
}

var _ ports.ShellFactory = (*EnvFactory)(nil)
