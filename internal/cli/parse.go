package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemaflow/pkg/pipeline"
)

// parseCommand creates the parse command, which prints the parsed schema.
func (c *CLI) parseCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "parse [schema.dbml|-]",
		Short: "Parse schema text into JSON",
		Long: `Parse schema text into JSON.

Table blocks and Ref declarations are read; anything else is ignored, so the
command never fails on malformed text. Text wrapped in a ` + "```dbml" + ` fence is
unwrapped first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, input, output string) error {
	text, err := readInput(input, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	s, err := pipeline.Parse(text)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}

	if output == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Parsed schema")
	printFile(output)
	printStats(s.TableCount(), len(s.Refs), false)
	return nil
}
