// Package render turns a laid-out diagram into files.
//
// # Overview
//
//   - The [diagram] subpackage draws the diagram itself as SVG: tables as
//     header-plus-rows cards, relationships as routed paths with crow's-foot
//     end markers and cardinality labels.
//   - The [nodelink] subpackage exports the graph as Graphviz DOT and renders
//     that with Graphviz, for a second opinion on the layout.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). Both renderers go through them.
//
//	svg := diagram.RenderSVG(res)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [diagram]: github.com/matzehuels/schemaflow/pkg/render/diagram
// [nodelink]: github.com/matzehuels/schemaflow/pkg/render/nodelink
package render
