package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/schemaflow/pkg/errors"
	"github.com/matzehuels/schemaflow/pkg/layout"
	"github.com/matzehuels/schemaflow/pkg/render"
	"github.com/matzehuels/schemaflow/pkg/render/diagram"
	"github.com/matzehuels/schemaflow/pkg/render/nodelink"
	"github.com/matzehuels/schemaflow/pkg/route"
)

// Document is the JSON artifact: the layout, the positions it was drawn
// with and every routed edge.
type Document struct {
	Layout    layout.Result     `json:"layout"`
	Positions *layout.Positions `json:"positions"`
	Routes    []route.Routed    `json:"routes"`
}

// Requests lists one routing request per edge of res.
func Requests(res layout.Result) []route.Request {
	reqs := make([]route.Request, len(res.Edges))
	for i, e := range res.Edges {
		reqs[i] = route.Request{ID: e.ID, Source: e.Source, Target: e.Target}
	}
	return reqs
}

// Routes routes every edge of res against pos. A nil pos means the computed
// positions.
func Routes(ctx context.Context, res layout.Result, pos *layout.Positions) ([]route.Routed, error) {
	if pos == nil {
		pos = res.Positions()
	}
	return route.RouteAll(ctx, pos, Requests(res))
}

func renderFormat(ctx context.Context, res layout.Result, pos *layout.Positions, format string, opts Options) ([]byte, error) {
	switch format {
	case render.FormatJSON:
		return renderJSON(ctx, res, pos)
	case render.FormatDOT:
		return []byte(toDOT(res)), nil
	}

	svg, err := renderSVG(ctx, res, pos, opts)
	if err != nil {
		return nil, err
	}
	switch format {
	case render.FormatSVG:
		return svg, nil
	case render.FormatPNG:
		return render.ToPNG(ctx, svg, opts.Scale)
	case render.FormatPDF:
		return render.ToPDF(ctx, svg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

func renderSVG(ctx context.Context, res layout.Result, pos *layout.Positions, opts Options) ([]byte, error) {
	if opts.Engine == EngineGraphviz {
		svg, err := nodelink.RenderSVG(ctx, toDOT(res))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "graphviz")
		}
		return svg, nil
	}

	style, err := diagram.StyleByName(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []diagram.SVGOption{diagram.WithStyle(style)}
	if pos != nil {
		svgOpts = append(svgOpts, diagram.WithPositions(pos))
	}
	if opts.NoLabels {
		svgOpts = append(svgOpts, diagram.WithoutLabels())
	}
	return diagram.RenderSVG(res, svgOpts...), nil
}

func renderJSON(ctx context.Context, res layout.Result, pos *layout.Positions) ([]byte, error) {
	if pos == nil {
		pos = res.Positions()
	}
	routes, err := Routes(ctx, res, pos)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(Document{Layout: res, Positions: pos, Routes: routes}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	return data, nil
}

func toDOT(res layout.Result) string {
	return nodelink.ToDOT(GraphOf(res), nodelink.Options{Direction: res.Direction, Detailed: true})
}
