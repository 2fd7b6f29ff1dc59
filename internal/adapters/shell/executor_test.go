package shell_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/devshell/internal/adapters/shell"
	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/zerr"
)

func newExecutor() (*shell.Executor, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	return shell.NewExecutorWithStreams(strings.NewReader(""), stdout, stderr), stdout, stderr
}

func TestExecutor_Run_Output(t *testing.T) {
	executor, stdout, stderr := newExecutor()

	err := executor.Run(context.Background(), []string{"sh", "-c", "echo line1; echo line2 >&2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "line1\n", stdout.String())
	assert.Equal(t, "line2\n", stderr.String())
}

func TestExecutor_Run_EnvironmentVariables(t *testing.T) {
	executor, stdout, _ := newExecutor()

	err := executor.Run(context.Background(), []string{"sh", "-c", "echo $VENV_DIR"}, []string{"VENV_DIR=.venv"})
	require.NoError(t, err)
	assert.Equal(t, ".venv\n", stdout.String())
}

func TestExecutor_Run_ResolvesFromNixPath(t *testing.T) {
	binDir := t.TempDir()
	script := filepath.Join(binDir, "devshell-test-tool")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho from-nix\n"), 0o700))

	executor, stdout, _ := newExecutor()
	err := executor.Run(context.Background(), []string{"devshell-test-tool"}, []string{"PATH=" + binDir})
	require.NoError(t, err)
	assert.Equal(t, "from-nix\n", stdout.String())
}

func TestExecutor_Run_CommandFailure(t *testing.T) {
	executor, _, _ := newExecutor()

	err := executor.Run(context.Background(), []string{"sh", "-c", "exit 3"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCommandFailed)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, 3, zErr.Metadata()["exit_code"])
	assert.Equal(t, "sh", zErr.Metadata()["command"])
}

func TestExecutor_Run_InvalidCommand(t *testing.T) {
	executor, _, _ := newExecutor()

	err := executor.Run(context.Background(), []string{"nonexistent-command-xyz123"}, nil)
	assert.ErrorIs(t, err, domain.ErrCommandFailed)
}

func TestExecutor_Run_NoCommand(t *testing.T) {
	executor, _, _ := newExecutor()
	assert.ErrorIs(t, executor.Run(context.Background(), nil, nil), domain.ErrNoCommand)
}

func TestResolveEnvironment(t *testing.T) {
	got := shell.ResolveEnvironment(
		[]string{"PATH=/usr/bin", "HOME=/home/dev", "VENV_DIR=old"},
		[]string{"PATH=/nix/store/abc/bin", "VENV_DIR=.venv", "malformed"},
	)

	assert.Equal(t, []string{
		"HOME=/home/dev",
		"PATH=/nix/store/abc/bin" + string(os.PathListSeparator) + "/usr/bin",
		"VENV_DIR=.venv",
	}, got)
}

func TestLookPath(t *testing.T) {
	_, err := shell.LookPath("sh", []string{"HOME=/"})
	assert.Error(t, err)

	dir := t.TempDir()
	notExec := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(notExec, []byte("x"), 0o600))
	_, err = shell.LookPath("data", []string{"PATH=" + dir})
	assert.Error(t, err)
}
