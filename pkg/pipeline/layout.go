package pipeline

import (
	"github.com/matzehuels/schemaflow/pkg/erd"
	"github.com/matzehuels/schemaflow/pkg/layout"
)

// GraphOf recovers the diagram graph a layout was computed from.
func GraphOf(res layout.Result) erd.Graph {
	g := erd.Graph{
		Nodes: make([]erd.Node, len(res.Nodes)),
		Edges: make([]erd.Edge, len(res.Edges)),
	}
	for i, n := range res.Nodes {
		g.Nodes[i] = n.Node
	}
	for i, e := range res.Edges {
		g.Edges[i] = e.Edge
	}
	return g
}

// ComputeLayout lays out g. It is the uncached layout stage.
func ComputeLayout(g erd.Graph, opts Options) layout.Result {
	return layout.Compute(g, opts.Layout)
}
