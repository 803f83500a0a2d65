package diagram

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/schemaflow/pkg/erd"
	"github.com/matzehuels/schemaflow/pkg/errors"
	"github.com/matzehuels/schemaflow/pkg/route"
)

// Style defines the visual appearance of a diagram.
type Style interface {
	// RenderDefs writes SVG <defs> content (end markers, filters).
	RenderDefs(buf *bytes.Buffer)
	// RenderBackground fills the canvas.
	RenderBackground(buf *bytes.Buffer, x, y, w, h float64)
	// RenderCard writes one table.
	RenderCard(buf *bytes.Buffer, c Card)
	// RenderEdge writes one relationship path with its end markers.
	RenderEdge(buf *bytes.Buffer, e Connector)
	// RenderLabel writes the cardinality label of a relationship.
	RenderLabel(buf *bytes.Buffer, e Connector)
}

// Card is a table as drawn.
type Card struct {
	ID         string
	X, Y, W, H float64
	Rows       []Row
}

// Row is one column line inside a card.
type Row struct {
	Name, Type string
	PrimaryKey bool
	// Y is the baseline center of the row.
	Y float64
}

// Connector is a routed relationship as drawn.
type Connector struct {
	ID                   string
	Path                 route.Path
	Label                string
	SourceEnd, TargetEnd erd.End
}

// Palette is the set of colors a [Basic] style draws with.
type Palette struct {
	Background string
	CardFill   string
	CardStroke string
	HeaderFill string
	HeaderText string
	Text       string
	TypeText   string
	KeyText    string
	Edge       string
	LabelFill  string
	LabelText  string
}

// Basic is a flat style parameterized by a palette.
type Basic struct {
	Palette Palette
}

// Light is the default style.
var Light = Basic{Palette: Palette{
	Background: "#ffffff",
	CardFill:   "#ffffff",
	CardStroke: "#cbd5e1",
	HeaderFill: "#1e293b",
	HeaderText: "#f8fafc",
	Text:       "#0f172a",
	TypeText:   "#64748b",
	KeyText:    "#b45309",
	Edge:       "#64748b",
	LabelFill:  "#e2e8f0",
	LabelText:  "#0f172a",
}}

// Dark mirrors Light for dark backgrounds.
var Dark = Basic{Palette: Palette{
	Background: "#0f172a",
	CardFill:   "#1e293b",
	CardStroke: "#334155",
	HeaderFill: "#334155",
	HeaderText: "#f8fafc",
	Text:       "#e2e8f0",
	TypeText:   "#94a3b8",
	KeyText:    "#fbbf24",
	Edge:       "#94a3b8",
	LabelFill:  "#334155",
	LabelText:  "#f8fafc",
}}

// Style names accepted by [StyleByName].
const (
	StyleLight = "light"
	StyleDark  = "dark"
)

// StyleByName returns the named style. An empty name means Light.
func StyleByName(name string) (Style, error) {
	switch strings.ToLower(name) {
	case "", StyleLight:
		return Light, nil
	case StyleDark:
		return Dark, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown style %q (want %s or %s)", name, StyleLight, StyleDark)
}

const (
	fontFamily   = "ui-sans-serif, system-ui, sans-serif"
	monoFamily   = "ui-monospace, SFMono-Regular, monospace"
	cardRadius   = 8.0
	textInset    = 16.0
	headerFont   = 16.0
	rowFont      = 13.0
	labelFont    = 11.0
	markerLength = 16.0
)

// RenderDefs writes one marker per end kind. Markers orient with
// auto-start-reverse so the same shape serves both ends of a path.
func (s Basic) RenderDefs(buf *bytes.Buffer) {
	p := s.Palette
	m := markerLength
	buf.WriteString("<defs>\n")
	fmt.Fprintf(buf, `  <marker id="end-%s" viewBox="0 0 %.0f %.0f" refX="%.0f" refY="%.0f" markerWidth="%.0f" markerHeight="%.0f" markerUnits="userSpaceOnUse" orient="auto-start-reverse">`+"\n",
		erd.EndOne, m, m, m, m/2, m, m)
	fmt.Fprintf(buf, `    <path d="M0,%.0f L%.0f,%.0f M%.0f,%.0f L%.0f,%.0f" stroke="%s" stroke-width="1.5" fill="none"/>`+"\n",
		m/2, m, m/2, m*0.6, m*0.15, m*0.6, m*0.85, p.Edge)
	buf.WriteString("  </marker>\n")
	fmt.Fprintf(buf, `  <marker id="end-%s" viewBox="0 0 %.0f %.0f" refX="%.0f" refY="%.0f" markerWidth="%.0f" markerHeight="%.0f" markerUnits="userSpaceOnUse" orient="auto-start-reverse">`+"\n",
		erd.EndMany, m, m, m, m/2, m, m)
	fmt.Fprintf(buf, `    <path d="M0,%.0f L%.0f,%.0f M%.0f,0 L%.0f,%.0f L%.0f,%.0f" stroke="%s" stroke-width="1.5" fill="none"/>`+"\n",
		m/2, m, m/2, m, m*0.4, m/2, m, m, p.Edge)
	buf.WriteString("  </marker>\n")
	buf.WriteString("</defs>\n")
}

func (s Basic) RenderBackground(buf *bytes.Buffer, x, y, w, h float64) {
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n", x, y, w, h, s.Palette.Background)
}

func (s Basic) RenderCard(buf *bytes.Buffer, c Card) {
	p := s.Palette
	fmt.Fprintf(buf, `<g class="table" id="table-%s">`+"\n", EscapeXML(c.ID))
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s" stroke="%s"/>`+"\n",
		c.X, c.Y, c.W, c.H, cardRadius, p.CardFill, p.CardStroke)

	hh := min(erd.HeaderHeight, c.H)
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s"/>`+"\n",
		c.X, c.Y, c.W, hh, cardRadius, p.HeaderFill)
	// Square off the header's bottom corners.
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.0f" fill="%s"/>`+"\n",
		c.X, c.Y+hh-cardRadius, c.W, cardRadius, p.HeaderFill)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="%s" font-size="%.0f" font-weight="600" fill="%s" dominant-baseline="central">%s</text>`+"\n",
		c.X+textInset, c.Y+hh/2, fontFamily, headerFont, p.HeaderText, EscapeXML(Truncate(c.ID, c.W-2*textInset, headerFont)))

	for _, r := range c.Rows {
		name := r.Name
		fill := p.Text
		if r.PrimaryKey {
			fill = p.KeyText
		}
		half := (c.W - 2*textInset) / 2
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="%s" font-size="%.0f" fill="%s" dominant-baseline="central">%s</text>`+"\n",
			c.X+textInset, r.Y, monoFamily, rowFont, fill, EscapeXML(Truncate(name, half, rowFont)))
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="%s" font-size="%.0f" fill="%s" text-anchor="end" dominant-baseline="central">%s</text>`+"\n",
			c.X+c.W-textInset, r.Y, monoFamily, rowFont, p.TypeText, EscapeXML(Truncate(r.Type, half, rowFont)))
	}
	buf.WriteString("</g>\n")
}

func (s Basic) RenderEdge(buf *bytes.Buffer, e Connector) {
	fmt.Fprintf(buf, `<path class="edge" id="edge-%s" d="%s" fill="none" stroke="%s" stroke-width="1.5"%s%s/>`+"\n",
		EscapeXML(e.ID), e.Path.D, s.Palette.Edge, markerAttr("marker-start", e.SourceEnd), markerAttr("marker-end", e.TargetEnd))
}

func (s Basic) RenderLabel(buf *bytes.Buffer, e Connector) {
	if e.Label == "" {
		return
	}
	b := e.Path.LabelBox
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.0f" height="%.0f" rx="%.0f" fill="%s"/>`+"\n",
		b.X, b.Y, b.Width, b.Height, b.Radius, s.Palette.LabelFill)
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="%s" font-size="%.0f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		e.Path.Label.X, e.Path.Label.Y, fontFamily, labelFont, s.Palette.LabelText, EscapeXML(e.Label))
}

func markerAttr(attr string, end erd.End) string {
	if end == "" {
		return ""
	}
	return fmt.Sprintf(` %s="url(#end-%s)"`, attr, end)
}
