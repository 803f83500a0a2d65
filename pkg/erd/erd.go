// Package erd projects a parsed schema onto an entity-relationship graph:
// one node per table and one edge per relationship.
//
// The graph is a plain value. It carries size estimates for each table but no
// positions; those are produced by the layout package into a separate store.
package erd

import (
	"fmt"

	"github.com/matzehuels/schemaflow/pkg/schema"
)

// Node size estimate, in diagram units.
const (
	DefaultNodeWidth = 280.0
	HeaderHeight     = 48.0
	RowHeight        = 36.0
	BodyPadding      = 12.0
)

// Node is a table in the diagram.
type Node struct {
	ID     string       `json:"id"`
	Table  schema.Table `json:"table"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
}

// Edge is a relationship between two tables. Source and Target are table
// names; either may name a table that has no node, in which case Dangling is
// set.
type Edge struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	Target     string          `json:"target"`
	FromColumn string          `json:"from_column"`
	ToColumn   string          `json:"to_column"`
	Relation   schema.Relation `json:"relation"`
	Label      string          `json:"label"`
	SourceEnd  End             `json:"source_end"`
	TargetEnd  End             `json:"target_end"`
	Dangling   bool            `json:"dangling,omitempty"`
}

// Graph is the diagram graph. Nodes follow table order, edges follow ref
// order.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Options controls node sizing.
type Options struct {
	// NodeWidth is the width shared by all nodes. Zero means DefaultNodeWidth.
	NodeWidth float64
}

// Build projects s onto a graph with default sizing.
func Build(s *schema.Schema) Graph {
	return BuildWithOptions(s, Options{})
}

// BuildWithOptions projects s onto a graph. It never fails: refs to unknown
// tables become dangling edges and refs with an unknown operator fall back to
// an empty label with one-to-one markers.
func BuildWithOptions(s *schema.Schema, opts Options) Graph {
	width := opts.NodeWidth
	if width <= 0 {
		width = DefaultNodeWidth
	}

	g := Graph{Nodes: []Node{}, Edges: []Edge{}}
	if s == nil {
		return g
	}

	known := make(map[string]bool, s.TableCount())
	for _, t := range s.Tables() {
		known[t.Name] = true
		g.Nodes = append(g.Nodes, Node{
			ID:     t.Name,
			Table:  t,
			Width:  width,
			Height: NodeHeight(len(t.Columns)),
		})
	}

	for i, r := range s.Refs {
		card := CardinalityOf(r.Relation)
		g.Edges = append(g.Edges, Edge{
			ID:         fmt.Sprintf("e%d", i),
			Source:     r.FromTable,
			Target:     r.ToTable,
			FromColumn: r.FromColumn,
			ToColumn:   r.ToColumn,
			Relation:   r.Relation,
			Label:      card.Label,
			SourceEnd:  card.Source,
			TargetEnd:  card.Target,
			Dangling:   !known[r.FromTable] || !known[r.ToTable],
		})
	}
	return g
}

// NodeHeight estimates the height of a table with the given number of
// columns.
func NodeHeight(columns int) float64 {
	return HeaderHeight + float64(columns)*RowHeight + BodyPadding
}

// Node returns the node with the given ID.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// IsEmpty reports whether the graph has neither nodes nor edges.
func (g Graph) IsEmpty() bool { return len(g.Nodes) == 0 && len(g.Edges) == 0 }
