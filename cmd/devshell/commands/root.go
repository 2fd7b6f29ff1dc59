// Package commands implements the CLI commands for devshell.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/devshell/internal/app"
	"go.trai.ch/devshell/internal/build"
	"go.trai.ch/devshell/internal/core/domain"
)

// CLI represents the command line interface for devshell.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	SetConfigPath(path string)
	SetJSONLogs(enable bool)
	Resolve(ctx context.Context, opts app.ResolveOptions) ([]*domain.EnvironmentDescriptor, error)
	Lock(ctx context.Context) (*domain.Lockfile, error)
	Expression(ctx context.Context, platform domain.Platform) (string, error)
	Environment(ctx context.Context) ([]string, error)
	Hook(ctx context.Context) (string, error)
	Realize(ctx context.Context) ([]app.RealizedPackage, error)
	Run(ctx context.Context, command []string) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "devshell",
		Short:         "Reproducible multi-platform development environments on Nix",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	var configPath string
	var jsonLogs bool
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the manifest (default: discover devshell.yaml or devshell.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if configPath != "" {
			a.SetConfigPath(configPath)
		}
		if jsonLogs {
			a.SetJSONLogs(true)
		}
	}

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newLockCmd())
	rootCmd.AddCommand(c.newExprCmd())
	rootCmd.AddCommand(c.newEnvCmd())
	rootCmd.AddCommand(c.newHookCmd())
	rootCmd.AddCommand(c.newRealizeCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newPlatformsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
