package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemaflow/pkg/pipeline"
	"github.com/matzehuels/schemaflow/pkg/render"
)

// renderCommand creates the render command for drawing diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [schema.dbml|-]",
		Short: "Render a schema as an entity-relationship diagram",
		Long: `Render a schema as an entity-relationship diagram.

SVG and DOT are written directly; PNG and PDF need rsvg-convert (librsvg).
With --engine graphviz the drawing is laid out by Graphviz instead of the
built-in layered layout.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, flags.apply)
			return c.runRender(cmd, args[0], flags.output, opts, flags.noCache)
		},
	}

	flags.bind(cmd)

	return cmd
}

// runRender runs the whole pipeline and writes one file per format.
func (c *CLI) runRender(cmd *cobra.Command, input, output string, opts pipeline.Options, noCache bool) error {
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	text, err := readInput(input, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sp := newSpinner(ctx, os.Stderr, "Laying out schema...").Start()
	result, err := runner.Execute(ctx, text, opts)
	if err != nil {
		sp.Fail("Render failed")
		return err
	}
	sp.Stop()

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Tables, result.Stats.Refs, result.CacheInfo.LayoutHit)
	for _, p := range paths {
		if filepath.Ext(p) == "."+render.FormatJSON {
			printNewline()
			printNextStep("Re-route after moving tables", appName+" route "+p)
			break
		}
	}
	return nil
}

// writeArtifacts writes each artifact and returns the paths written. A
// single format goes to output as given; several formats share output's
// stem. Without output the stem is the input's.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	base := outputBase(input)
	if output != "" {
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if output != "" && len(formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
