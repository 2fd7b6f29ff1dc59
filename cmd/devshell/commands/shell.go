package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/devshell/internal/core/domain"
)

func (c *CLI) newExprCmd() *cobra.Command {
	var platform string

	cmd := &cobra.Command{
		Use:   "expr",
		Short: "Print the Nix expression of the environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			expr, err := c.app.Expression(cmd.Context(), domain.Platform(platform))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), expr)
			return err
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Platform to render for (default: host)")
	return cmd
}

func (c *CLI) newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Realize the host environment and print its variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.app.Environment(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, kv := range env {
				if _, err := fmt.Fprintln(out, kv); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *CLI) newHookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hook",
		Short: "Print a shell script activating the environment",
		Long:  `Print a POSIX shell script that exports the environment and runs its hooks. Use it as: eval "$(devshell hook)"`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			script, err := c.app.Hook(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), script)
			return err
		},
	}
}

func (c *CLI) newRealizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "realize",
		Short: "Build every package of the host environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pkgs, err := c.app.Realize(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range pkgs {
				if _, err := fmt.Fprintf(out, "%s@%s\t%s\n", p.Name, p.Version, p.StorePath); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run -- COMMAND [ARGS...]",
		Short:   "Run a command inside the host environment",
		Example: "  devshell run -- python -m flask run",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Run(cmd.Context(), args)
		},
	}

	// Flags after the command name belong to the command.
	cmd.Flags().SetInterspersed(false)
	return cmd
}
