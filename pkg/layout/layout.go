package layout

import (
	"github.com/matzehuels/schemaflow/pkg/dag"
	"github.com/matzehuels/schemaflow/pkg/dag/transform"
	"github.com/matzehuels/schemaflow/pkg/erd"
)

const metaEdgeID = "edge"

// Node is a table with its computed placement. X and Y are the top-left
// corner of the table's padded box. Order is the table's position among the
// tables of its rank, counted from zero without gaps.
type Node struct {
	erd.Node
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Rank  int     `json:"rank"`
	Order int     `json:"order"`
}

// Rect returns the node's placement with its drawn size.
func (n Node) Rect() Rect {
	return Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// Edge is a relationship as laid out. Reversed marks edges that ranking
// treated as pointing the other way to break a cycle; self-references are
// always Reversed. Rendering uses Source and Target unchanged.
type Edge struct {
	erd.Edge
	Reversed bool `json:"reversed,omitempty"`
}

// Result is a computed layout.
type Result struct {
	Direction Direction `json:"direction"`
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Ranks     int       `json:"ranks"`
	Crossings int       `json:"crossings"`
}

// Positions returns a fresh position store seeded from the result.
func (r Result) Positions() *Positions {
	p := NewPositions()
	for _, n := range r.Nodes {
		p.Set(n.ID, n.Rect())
	}
	return p
}

// Node returns the laid-out node with the given ID.
func (r Result) Node(id string) (Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Compute lays out g as a layered diagram.
//
// Compute is a pure function of its inputs: the same graph and configuration
// always give the same coordinates. It never fails. An empty graph gives an
// empty result, cycles are broken for ranking only, and dangling edges are
// carried through without influencing placement. cfg is not validated; see
// [Config.Validate].
func Compute(g erd.Graph, cfg Config) Result {
	res := Result{Direction: cfg.Direction, Nodes: []Node{}, Edges: []Edge{}}
	if len(g.Nodes) == 0 {
		for _, e := range g.Edges {
			res.Edges = append(res.Edges, Edge{Edge: e})
		}
		return res
	}

	d := dag.New(nil)
	ext := make(map[string]extent, len(g.Nodes))
	for _, n := range g.Nodes {
		if err := d.AddNode(dag.Node{ID: n.ID}); err != nil {
			continue
		}
		w, h := n.Width+cfg.Padding, n.Height+cfg.Padding
		if cfg.Direction == TB {
			ext[n.ID] = extent{along: w, across: h}
		} else {
			ext[n.ID] = extent{along: h, across: w}
		}
	}
	for _, e := range g.Edges {
		if e.Dangling {
			continue
		}
		_ = d.AddEdge(dag.Edge{From: e.Source, To: e.Target, Meta: dag.Metadata{metaEdgeID: e.ID}})
	}

	prep := transform.Prepare(d)
	reversed := make(map[string]bool, len(prep.Reversed))
	for _, e := range prep.Reversed {
		if id, ok := e.Meta[metaEdgeID].(string); ok {
			reversed[id] = true
		}
	}

	orders, crossings := orderRanks(d)
	centers, width, height := assignCoordinates(d, orders, ext, cfg)

	// Order counts tables only; virtual nodes hold slots in a rank but are
	// not numbered.
	index := make(map[string]int, d.NodeCount())
	for _, order := range orders {
		i := 0
		for _, id := range order {
			if dn, ok := d.Node(id); ok && dn.IsVirtual() {
				continue
			}
			index[id] = i
			i++
		}
	}

	for _, n := range g.Nodes {
		dn, ok := d.Node(n.ID)
		if !ok {
			continue
		}
		c := centers[n.ID]
		pw, ph := n.Width+cfg.Padding, n.Height+cfg.Padding
		res.Nodes = append(res.Nodes, Node{
			Node:  n,
			X:     c.x - pw/2,
			Y:     c.y - ph/2,
			Rank:  dn.Row,
			Order: index[n.ID],
		})
	}
	for _, e := range g.Edges {
		res.Edges = append(res.Edges, Edge{Edge: e, Reversed: reversed[e.ID]})
	}

	res.Width, res.Height = width, height
	res.Ranks = d.RowCount()
	res.Crossings = crossings
	return res
}
