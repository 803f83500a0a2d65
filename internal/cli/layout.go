package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/schemaflow/pkg/render"
)

// layoutCommand creates the layout command, which writes the computed
// positions and routed edges as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [schema.dbml|-]",
		Short: "Compute table positions and edge routes",
		Long: `Compute table positions and edge routes.

The output is a layout JSON file (same format as 'render -f json'). Edit the
positions in it and run 'route' to re-route the edges.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, flags.apply)
			opts.Formats = []string{render.FormatJSON}
			return c.runRender(cmd, args[0], output, opts, flags.noCache)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.json)")

	return cmd
}
