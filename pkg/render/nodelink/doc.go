// Package nodelink exports entity-relationship graphs as Graphviz DOT and
// renders them with Graphviz.
//
// # Overview
//
// The Graphviz rendering is an independent second layout of the same graph:
// useful for comparing against the built-in layered layout and for feeding
// other Graphviz tools.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Direction: layout.TB, Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # DOT Format
//
// Relationships are drawn with dir=both and crow's-foot arrow shapes: "crow"
// on a many end, "tee" on a one end. Tables referenced but never declared
// appear as dashed grey placeholders.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
