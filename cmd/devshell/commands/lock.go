package commands

import "github.com/spf13/cobra"

func (c *CLI) newLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Pin every manifest platform in devshell.lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.app.Lock(cmd.Context())
			return err
		},
	}
}
