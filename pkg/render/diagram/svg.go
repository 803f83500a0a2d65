package diagram

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/schemaflow/pkg/erd"
	"github.com/matzehuels/schemaflow/pkg/layout"
	"github.com/matzehuels/schemaflow/pkg/route"
)

// canvasMargin is kept around content that was moved past the computed
// layout bounds.
const canvasMargin = 40.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style     Style
	positions *layout.Positions
	labels    bool
}

// WithStyle selects the visual style. The default is [Light].
func WithStyle(s Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithPositions draws tables where p puts them instead of where the layout
// placed them. Tables missing from p are not drawn, and neither are their
// edges.
func WithPositions(p *layout.Positions) SVGOption {
	return func(r *svgRenderer) { r.positions = p }
}

// WithoutLabels omits the cardinality labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// RenderSVG draws res as a standalone SVG document.
func RenderSVG(res layout.Result, opts ...SVGOption) []byte {
	r := svgRenderer{style: Light, labels: true}
	for _, opt := range opts {
		opt(&r)
	}
	pos := r.positions
	if pos == nil {
		pos = res.Positions()
	}

	cards := buildCards(res, pos)
	conns := buildConnectors(res, pos)
	x, y, w, h := bounds(res, cards, conns)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		x, y, w, h, w, h)
	r.style.RenderDefs(&buf)
	r.style.RenderBackground(&buf, x, y, w, h)
	for _, c := range conns {
		r.style.RenderEdge(&buf, c)
	}
	for _, c := range cards {
		r.style.RenderCard(&buf, c)
	}
	if r.labels {
		for _, c := range conns {
			r.style.RenderLabel(&buf, c)
		}
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func buildCards(res layout.Result, pos *layout.Positions) []Card {
	cards := make([]Card, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		rect, ok := pos.Get(n.ID)
		if !ok {
			continue
		}
		c := Card{ID: n.ID, X: rect.X, Y: rect.Y, W: rect.Width, H: rect.Height}
		top := rect.Y + erd.HeaderHeight + erd.BodyPadding/2
		for i, col := range n.Table.Columns {
			c.Rows = append(c.Rows, Row{
				Name:       col.Name,
				Type:       col.Type,
				PrimaryKey: col.IsPrimaryKey(),
				Y:          top + float64(i)*erd.RowHeight + erd.RowHeight/2,
			})
		}
		cards = append(cards, c)
	}
	return cards
}

func buildConnectors(res layout.Result, pos *layout.Positions) []Connector {
	conns := make([]Connector, 0, len(res.Edges))
	for _, e := range res.Edges {
		if e.Dangling {
			continue
		}
		p, ok := route.RouteEdge(pos, e.Source, e.Target)
		if !ok {
			continue
		}
		conns = append(conns, Connector{
			ID:        e.ID,
			Path:      p,
			Label:     e.Label,
			SourceEnd: e.SourceEnd,
			TargetEnd: e.TargetEnd,
		})
	}
	return conns
}

// bounds covers the computed layout plus everything actually drawn, so
// tables dragged outside the original canvas stay visible.
func bounds(res layout.Result, cards []Card, conns []Connector) (x, y, w, h float64) {
	minX, minY := 0.0, 0.0
	maxX, maxY := res.Width, res.Height
	grow := func(x0, y0, x1, y1 float64) {
		minX, minY = math.Min(minX, x0-canvasMargin), math.Min(minY, y0-canvasMargin)
		maxX, maxY = math.Max(maxX, x1+canvasMargin), math.Max(maxY, y1+canvasMargin)
	}
	for _, c := range cards {
		grow(c.X, c.Y, c.X+c.W, c.Y+c.H)
	}
	for _, c := range conns {
		for _, p := range c.Path.Points {
			grow(p.X, p.Y, p.X, p.Y)
		}
		b := c.Path.LabelBox
		grow(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
	}
	return minX, minY, maxX - minX, maxY - minY
}
