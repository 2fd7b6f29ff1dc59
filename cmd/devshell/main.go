// Package main is the entry point for devshell.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/devshell/cmd/devshell/commands"
	"go.trai.ch/devshell/internal/app"
	"go.trai.ch/devshell/internal/core/domain"
	_ "go.trai.ch/devshell/internal/wiring"
	"go.trai.ch/zerr"
)

// Exit codes reported for the resolution error kinds.
const (
	exitOK                  = 0
	exitFailure             = 1
	exitUnsupportedPlatform = 2
	exitLicenseRestricted   = 3
	exitPackageNotFound     = 4
	exitExternalResolution  = 5
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return exitFailure
	}
	defer cleanup()

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		if code, ok := commandExitCode(err); ok {
			return code
		}
		components.Logger.Error(err)
		return exitCode(err)
	}
	return exitOK
}

// exitCode maps an error to the process exit code of its kind.
func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedPlatform):
		return exitUnsupportedPlatform
	case errors.Is(err, domain.ErrLicenseRestricted):
		return exitLicenseRestricted
	case errors.Is(err, domain.ErrPackageNotFound):
		return exitPackageNotFound
	case errors.Is(err, domain.ErrExternalResolution):
		return exitExternalResolution
	default:
		return exitFailure
	}
}

// commandExitCode reports the exit status of a command started by `devshell run`.
func commandExitCode(err error) (int, bool) {
	if !errors.Is(err, domain.ErrCommandFailed) {
		return 0, false
	}
	var zErr *zerr.Error
	if !errors.As(err, &zErr) {
		return 0, false
	}
	code, ok := zErr.Metadata()["exit_code"].(int)
	if !ok || code <= 0 {
		return 0, false
	}
	return code, true
}
