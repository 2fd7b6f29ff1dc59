// Package shell runs commands inside a realized environment.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.CommandRunner using os/exec.
type Executor struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewExecutor creates an Executor attached to the process standard streams.
func NewExecutor() *Executor {
	return NewExecutorWithStreams(os.Stdin, os.Stdout, os.Stderr)
}

// NewExecutorWithStreams creates an Executor attached to the given streams.
func NewExecutorWithStreams(stdin io.Reader, stdout, stderr io.Writer) *Executor {
	return &Executor{stdin: stdin, stdout: stdout, stderr: stderr}
}

// Run executes command with the given environment.
// It merges environments with the following priority (low to high):
// 1. os.Environ() (System base)
// 2. env (Nix environment)
//
// Special handling is applied to PATH: Nix paths are prepended to System paths.
func (e *Executor) Run(ctx context.Context, command, env []string) error {
	if len(command) == 0 {
		return domain.ErrNoCommand
	}

	name := command[0]
	args := command[1:]

	cmdEnv := resolveEnvironment(os.Environ(), env)

	// Resolve the executable using the environment's PATH
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // user provided command

	// exec.CommandContext sets Args[0] to the executable path; keep the name as invoked.
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}

	cmd.Env = cmdEnv
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1 // Unknown or signal
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		runErr := zerr.With(zerr.Wrap(domain.ErrCommandFailed, err.Error()), "command", name)
		return zerr.With(runErr, "exit_code", exitCode)
	}

	return nil
}

// resolveEnvironment merges environment variables with the defined priority.
// The result is sorted by key.
func resolveEnvironment(sysEnv, nixEnv []string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	for _, entry := range nixEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH variable of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

var _ ports.CommandRunner = (*Executor)(nil)
