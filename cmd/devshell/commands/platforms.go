package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/ui/style"
)

func (c *CLI) newPlatformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported platforms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, _ := domain.HostPlatform()
			out := cmd.OutOrStdout()
			for _, p := range domain.SupportedPlatforms() {
				line := style.Circle + " " + p.String()
				if p == host {
					line = style.Dot + " " + p.String() + " " + style.Muted.Render("(host)")
				}
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
