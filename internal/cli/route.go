package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemaflow/pkg/errors"
	"github.com/matzehuels/schemaflow/pkg/pipeline"
)

// routeCommand creates the route command, which re-routes the edges of a
// layout JSON file against its (possibly edited) positions.
func (c *CLI) routeCommand() *cobra.Command {
	var (
		output string
		moves  []string
	)

	cmd := &cobra.Command{
		Use:   "route [layout.json]",
		Short: "Re-route edges after tables were moved",
		Long: `Re-route edges after tables were moved.

Reads a layout JSON file written by 'layout' or 'render -f json', applies any
--move flags to its positions, routes every edge again and writes the file
back (or to --output).

Example:
  schemaflow route blog.json --move users=600,40 --move posts=0,400`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoute(cmd, args[0], output, moves)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().StringArrayVar(&moves, "move", nil, "move a table's top-left corner: table=x,y (repeatable)")

	return cmd
}

func (c *CLI) runRoute(cmd *cobra.Command, input, output string, moves []string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	var doc pipeline.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s is not a layout file", input)
	}
	if doc.Positions == nil {
		doc.Positions = doc.Layout.Positions()
	}

	for _, m := range moves {
		id, x, y, err := parseMove(m)
		if err != nil {
			return err
		}
		if !doc.Positions.Move(id, x, y) {
			return errors.New(errors.ErrCodeNotFound, "table %q is not in %s", id, input)
		}
		c.Logger.Debug("moved table", "table", id, "x", x, "y", y)
	}

	routes, err := pipeline.Routes(cmd.Context(), doc.Layout, doc.Positions)
	if err != nil {
		return err
	}
	doc.Routes = routes

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if output == "" {
		output = input
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	drawn := 0
	for _, r := range routes {
		if r.OK {
			drawn++
		}
	}
	printSuccess("Routed %d of %d edges", drawn, len(routes))
	printFile(output)
	return nil
}

// parseMove parses "table=x,y".
func parseMove(s string) (id string, x, y float64, err error) {
	id, coords, ok := strings.Cut(s, "=")
	xs, ys, ok2 := strings.Cut(coords, ",")
	if !ok || !ok2 {
		return "", 0, 0, errors.New(errors.ErrCodeInvalidInput, "invalid move %q (want table=x,y)", s)
	}
	if err := errors.ValidateNodeID(id); err != nil {
		return "", 0, 0, err
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(xs), 64); err != nil {
		return "", 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid x in %q", s)
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(ys), 64); err != nil {
		return "", 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid y in %q", s)
	}
	return id, x, y, nil
}
