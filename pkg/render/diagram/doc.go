// Package diagram draws a laid-out entity-relationship diagram as SVG.
//
// Tables become cards with a header and one line per column; primary key
// columns are highlighted. Relationships are routed with [route.RouteEdge]
// against the current table positions and drawn with crow's-foot end markers
// and a cardinality label.
//
//	res := layout.Compute(erd.Build(s), layout.DefaultConfig())
//	svg := diagram.RenderSVG(res, diagram.WithStyle(diagram.Dark))
//
// Pass [WithPositions] to draw a diagram whose tables were moved after
// layout; edges follow the moved tables.
//
// [route.RouteEdge]: github.com/matzehuels/schemaflow/pkg/route.RouteEdge
package diagram
