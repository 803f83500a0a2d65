package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schemaflow/pkg/pipeline"
)

// inspectCommand creates the inspect command, an interactive table browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [schema.dbml|-]",
		Short: "Browse tables and relationships in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			s, err := pipeline.Parse(text)
			if err != nil {
				return err
			}
			g := pipeline.Build(s, c.options(cmd, func(*cobra.Command, *pipeline.Options) {}))

			if plain || args[0] == "-" || !isTerminal(os.Stdout) {
				for _, n := range g.Nodes {
					fmt.Fprintln(cmd.OutOrStdout(), tableDetail(g, n))
				}
				fmt.Fprintln(cmd.OutOrStdout(), statsLine(len(g.Nodes), len(g.Edges), false))
				return nil
			}

			_, err = tea.NewProgram(NewTableBrowser(g), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print every table instead of browsing")

	return cmd
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
