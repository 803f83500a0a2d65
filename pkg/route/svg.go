package route

import (
	"math"
	"strconv"
	"strings"
)

// svgPath renders points as SVG path data, rounding every corner with radius
// r (shrunk where a segment is too short to fit it).
func svgPath(points []Point, r float64) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("M" + pt(points[0]))
	for i := 1; i < len(points)-1; i++ {
		prev, corner, next := points[i-1], points[i], points[i+1]
		rr := min(r, dist(prev, corner)/2, dist(corner, next)/2)
		in := toward(corner, prev, rr)
		out := toward(corner, next, rr)
		b.WriteString(" L" + pt(in) + " Q" + pt(corner) + " " + pt(out))
	}
	if len(points) > 1 {
		b.WriteString(" L" + pt(points[len(points)-1]))
	}
	return b.String()
}

// toward returns the point at distance d from a in the direction of b.
func toward(a, b Point, d float64) Point {
	l := dist(a, b)
	if l == 0 {
		return a
	}
	return Point{X: a.X + (b.X-a.X)/l*d, Y: a.Y + (b.Y-a.Y)/l*d}
}

func dist(a, b Point) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

func pt(p Point) string { return num(p.X) + "," + num(p.Y) }

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
