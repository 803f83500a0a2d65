package transform

import "github.com/matzehuels/schemaflow/pkg/dag"

// Result reports what [Prepare] did to a graph.
type Result struct {
	// Reversed lists the feedback edges in their original orientation,
	// self-loops included.
	Reversed []dag.Edge

	// EdgeLength is the total row span of all edges after tightening.
	EdgeLength int

	// VirtualAdded is the number of virtual nodes inserted by [Subdivide].
	VirtualAdded int

	// MaxRow is the deepest row after all transformations.
	MaxRow int
}

// Options configures [PrepareWithOptions]. The zero value applies every step.
type Options struct {
	// SkipTightening keeps the pure longest-path layering.
	SkipTightening bool
}

// Prepare turns an arbitrary directed graph into a proper layered graph in
// place: cycles are broken, rows assigned and tightened, and long edges
// subdivided so that every edge joins consecutive rows.
func Prepare(g *dag.DAG) Result {
	return PrepareWithOptions(g, Options{})
}

// PrepareWithOptions is [Prepare] with individual steps switchable.
func PrepareWithOptions(g *dag.DAG, opts Options) Result {
	var res Result
	res.Reversed = BreakCycles(g)
	AssignLayers(g)
	if !opts.SkipTightening {
		res.EdgeLength = TightenLayers(g)
	} else {
		for _, e := range g.Edges() {
			from, _ := g.Node(e.From)
			to, _ := g.Node(e.To)
			res.EdgeLength += to.Row - from.Row
		}
	}
	res.VirtualAdded = Subdivide(g)
	res.MaxRow = g.MaxRow()
	return res
}
