package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/schemaflow/pkg/erd"
	"github.com/matzehuels/schemaflow/pkg/layout"
	"github.com/matzehuels/schemaflow/pkg/render"
)

// Options configures DOT generation.
type Options struct {
	// Direction sets rankdir. Empty means left to right.
	Direction layout.Direction
	// Detailed lists every column inside its table. When false, only the
	// table name is shown.
	Detailed bool
}

// ToDOT converts an entity-relationship graph to Graphviz DOT.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Tables referenced but never declared get a dashed grey placeholder node so
// dangling relationships stay visible.
func ToDOT(g erd.Graph, opts Options) string {
	rankdir := layout.LR
	if opts.Direction == layout.TB {
		rankdir = layout.TB
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [dir=both, fontsize=10];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.6;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}
	for _, id := range missingTables(g) {
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(placeholderAttrs(), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n erd.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}
	parts := make([]string, 0, len(n.Table.Columns))
	for _, c := range n.Table.Columns {
		line := c.Name + " " + c.Type
		if c.IsPrimaryKey() {
			line += " (pk)"
		}
		parts = append(parts, line)
	}
	if len(parts) == 0 {
		return n.ID
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n erd.Node, detailed bool) []string {
	return []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
}

func placeholderAttrs() []string {
	return []string{"style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black"}
}

func edgeAttrs(e erd.Edge) []string {
	attrs := []string{
		"arrowtail=" + arrow(e.SourceEnd),
		"arrowhead=" + arrow(e.TargetEnd),
	}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if e.FromColumn != "" || e.ToColumn != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", e.Source+"."+e.FromColumn+" → "+e.Target+"."+e.ToColumn))
	}
	return attrs
}

func arrow(end erd.End) string {
	if end == erd.EndMany {
		return "crow"
	}
	return "tee"
}

// missingTables returns dangling endpoints in first-reference order.
func missingTables(g erd.Graph) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		if !e.Dangling {
			continue
		}
		for _, id := range []string{e.Source, e.Target} {
			if _, ok := g.Node(id); ok || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
