package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.trai.ch/devshell/internal/app"
	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/ui/style"
)

// shortRevLen is the number of revision characters shown in listings.
const shortRevLen = 12

func (c *CLI) newResolveCmd() *cobra.Command {
	var platform string
	var all bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the manifest into environment descriptors",
		Long: "Resolve the manifest for the host platform, a given platform, or every platform " +
			"listed in the manifest. Pins in devshell.lock take precedence over the package index.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			descs, err := c.app.Resolve(cmd.Context(), app.ResolveOptions{
				Platform: domain.Platform(platform),
				All:      all,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, descs, all)
			}
			return writeListing(out, descs)
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Platform to resolve for (default: host)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Resolve every platform listed in the manifest")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print descriptors as JSON")
	cmd.MarkFlagsMutuallyExclusive("platform", "all")

	return cmd
}

func writeJSON(w io.Writer, descs []*domain.EnvironmentDescriptor, asList bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if asList || len(descs) != 1 {
		return enc.Encode(descs)
	}
	return enc.Encode(descs[0])
}

func writeListing(w io.Writer, descs []*domain.EnvironmentDescriptor) error {
	for i, desc := range descs {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s (venv %s)\n", style.Bold.Render(desc.Platform.String()), desc.VenvDir); err != nil {
			return err
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, ref := range desc.Packages {
			unfree := ""
			if ref.Unfree {
				unfree = "unfree"
			}
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", ref.QualifiedName(), ref.Version, shortRev(ref.Rev), unfree)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func shortRev(rev string) string {
	if len(rev) > shortRevLen {
		return rev[:shortRevLen]
	}
	return rev
}
