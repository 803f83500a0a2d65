// Package route connects two placed tables with an orthogonal edge.
//
// The router is stateless: every call derives the attachment sides, the
// path and the label anchor from the boxes it is given. Callers re-route
// whenever a box moves.
package route

import "math"

// Path shape constants, in diagram units.
const (
	Offset       = 20.0
	BorderRadius = 5.0
	LabelWidth   = 40.0
	LabelHeight  = 20.0
	LabelRadius  = 4.0

	DefaultWidth  = 280.0
	DefaultHeight = 200.0
)

// Side is the side of a box an edge attaches to.
type Side string

const (
	Left   Side = "left"
	Right  Side = "right"
	Top    Side = "top"
	Bottom Side = "bottom"
)

func (s Side) direction() Point {
	switch s {
	case Left:
		return Point{X: -1}
	case Right:
		return Point{X: 1}
	case Top:
		return Point{Y: -1}
	default:
		return Point{Y: 1}
	}
}

// Point is a position on the diagram.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is a placed rectangle: top-left corner and size.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Sized returns b with a zero width or height replaced by the default table
// size, for boxes placed before they were measured.
func (b Box) Sized() Box {
	if b.Width <= 0 {
		b.Width = DefaultWidth
	}
	if b.Height <= 0 {
		b.Height = DefaultHeight
	}
	return b
}

// Center returns the midpoint of b.
func (b Box) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Anchor returns the midpoint of side s.
func (b Box) Anchor(s Side) Point {
	c := b.Center()
	switch s {
	case Left:
		return Point{X: b.X, Y: c.Y}
	case Right:
		return Point{X: b.X + b.Width, Y: c.Y}
	case Top:
		return Point{X: c.X, Y: b.Y}
	default:
		return Point{X: c.X, Y: b.Y + b.Height}
	}
}

// LabelBox is the filled rectangle drawn behind an edge's cardinality label.
type LabelBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Radius float64 `json:"radius"`
}

// Path is a routed edge.
type Path struct {
	SourceSide Side `json:"source_side"`
	TargetSide Side `json:"target_side"`

	// Points are the waypoints from source anchor to target anchor, corners
	// unrounded.
	Points []Point `json:"points"`
	// D is the SVG path data with rounded corners.
	D string `json:"d"`

	Label    Point    `json:"label"`
	LabelBox LabelBox `json:"label_box"`
}

// Sides picks where the edge leaves src and enters dst. When the centers are
// further apart horizontally than vertically the edge runs sideways, from
// src's right to dst's left if dst is to the right and mirrored otherwise.
// Else it runs from src's bottom to dst's top if dst is below, mirrored
// otherwise. Ties go vertical.
func Sides(src, dst Box) (Side, Side) {
	sc, dc := src.Center(), dst.Center()
	dx, dy := dc.X-sc.X, dc.Y-sc.Y
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return Right, Left
		}
		return Left, Right
	}
	if dy > 0 {
		return Bottom, Top
	}
	return Top, Bottom
}

// Route connects src to dst with a smoothed step path.
func Route(src, dst Box) Path {
	src, dst = src.Sized(), dst.Sized()
	ss, ts := Sides(src, dst)
	s, t := src.Anchor(ss), dst.Anchor(ts)

	points := simplify(stepPoints(s, ss, t, ts))
	label := Point{X: (s.X + t.X) / 2, Y: (s.Y + t.Y) / 2}

	return Path{
		SourceSide: ss,
		TargetSide: ts,
		Points:     points,
		D:          svgPath(points, BorderRadius),
		Label:      label,
		LabelBox: LabelBox{
			X:      label.X - LabelWidth/2,
			Y:      label.Y - LabelHeight/2,
			Width:  LabelWidth,
			Height: LabelHeight,
			Radius: LabelRadius,
		},
	}
}

// SelfLoop routes a table's reference to itself as a loop off its right
// side, since [Route] would collapse it onto the box's center line.
func SelfLoop(b Box) Path {
	b = b.Sized()
	c := b.Center()
	right := b.X + b.Width
	q := min(b.Height/4, Offset)
	out := right + 2*Offset

	points := []Point{{right, c.Y - q}, {out, c.Y - q}, {out, c.Y + q}, {right, c.Y + q}}
	label := Point{X: out, Y: c.Y}
	return Path{
		SourceSide: Right,
		TargetSide: Right,
		Points:     points,
		D:          svgPath(points, BorderRadius),
		Label:      label,
		LabelBox: LabelBox{
			X:      label.X - LabelWidth/2,
			Y:      label.Y - LabelHeight/2,
			Width:  LabelWidth,
			Height: LabelHeight,
			Radius: LabelRadius,
		},
	}
}

// stepPoints returns the orthogonal waypoints between anchors s and t. The
// path first steps Offset out of each box; if those stubs would cross, it
// detours around through the midline between the anchors.
func stepPoints(s Point, ss Side, t Point, ts Side) []Point {
	ds, dt := ss.direction(), ts.direction()
	p1 := Point{X: s.X + ds.X*Offset, Y: s.Y + ds.Y*Offset}
	p2 := Point{X: t.X + dt.X*Offset, Y: t.Y + dt.Y*Offset}
	mid := Point{X: (s.X + t.X) / 2, Y: (s.Y + t.Y) / 2}

	if ds.X != 0 {
		if (p2.X-p1.X)*ds.X >= 0 {
			return []Point{s, {X: mid.X, Y: s.Y}, {X: mid.X, Y: t.Y}, t}
		}
		return []Point{s, p1, {X: p1.X, Y: mid.Y}, {X: p2.X, Y: mid.Y}, p2, t}
	}
	if (p2.Y-p1.Y)*ds.Y >= 0 {
		return []Point{s, {X: s.X, Y: mid.Y}, {X: t.X, Y: mid.Y}, t}
	}
	return []Point{s, p1, {X: mid.X, Y: p1.Y}, {X: mid.X, Y: p2.Y}, p2, t}
}

// simplify drops repeated points and points lying on a straight line between
// their neighbours.
func simplify(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		if n := len(out); n >= 2 && collinear(out[n-2], out[n-1], p) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func collinear(a, b, c Point) bool {
	return (a.X == b.X && b.X == c.X) || (a.Y == b.Y && b.Y == c.Y)
}
