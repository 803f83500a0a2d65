package transform

import (
	"maps"

	"github.com/matzehuels/schemaflow/pkg/dag"
)

// MetaReversed is set to true on the metadata of every edge that
// [BreakCycles] reversed.
const MetaReversed = "reversed"

// BreakCycles makes the graph acyclic by reversing a small feedback arc set
// and returns the removed edges in their original orientation.
//
// Self-loops are feedback edges that cannot be reversed; they are removed and
// reported but not re-added. Every other feedback edge u→v is replaced by v→u
// with [MetaReversed] set, so it still pulls its endpoints onto nearby ranks.
//
// # Algorithm
//
// The node sequence comes from the greedy heuristic of Eades, Lin and Smyth:
// sinks are peeled off to the end of the sequence and sources to the front;
// when neither exists the node with the largest out-degree minus in-degree is
// moved to the front. Edges pointing backwards in the sequence form the
// feedback set. Ties are broken by insertion order, so the result is
// deterministic.
//
// BreakCycles runs in O(V² + E) time, which is plenty for diagram-sized
// graphs.
func BreakCycles(g *dag.DAG) []dag.Edge {
	pos := dag.PosMap(feedbackOrder(g))

	var feedback []dag.Edge
	for _, e := range g.Edges() {
		if e.From == e.To || pos[e.From] > pos[e.To] {
			feedback = append(feedback, e)
		}
	}

	removed := make(map[[2]string]bool, len(feedback))
	for _, e := range feedback {
		key := [2]string{e.From, e.To}
		if !removed[key] {
			g.RemoveEdge(e.From, e.To)
			removed[key] = true
		}
	}
	for _, e := range feedback {
		if e.From == e.To {
			continue
		}
		meta := maps.Clone(e.Meta)
		if meta == nil {
			meta = dag.Metadata{}
		}
		meta[MetaReversed] = true
		if err := g.AddEdge(dag.Edge{From: e.To, To: e.From, Meta: meta}); err != nil {
			panic(err)
		}
	}
	return feedback
}

func feedbackOrder(g *dag.DAG) []string {
	nodes := g.Nodes()
	alive := make(map[string]bool, len(nodes))
	in := make(map[string]int, len(nodes))
	out := make(map[string]int, len(nodes))
	for _, n := range nodes {
		alive[n.ID] = true
	}
	for _, e := range g.Edges() {
		if e.From != e.To {
			out[e.From]++
			in[e.To]++
		}
	}

	remove := func(id string) {
		alive[id] = false
		for _, c := range g.Children(id) {
			if c != id && alive[c] {
				in[c]--
			}
		}
		for _, p := range g.Parents(id) {
			if p != id && alive[p] {
				out[p]--
			}
		}
	}

	left := make([]string, 0, len(nodes))
	var right []string
	remaining := len(nodes)

	for remaining > 0 {
		for changed := true; changed; {
			changed = false
			for _, n := range nodes {
				if alive[n.ID] && out[n.ID] == 0 {
					remove(n.ID)
					right = append(right, n.ID)
					remaining--
					changed = true
				}
			}
			for _, n := range nodes {
				if alive[n.ID] && in[n.ID] == 0 {
					remove(n.ID)
					left = append(left, n.ID)
					remaining--
					changed = true
				}
			}
		}
		if remaining == 0 {
			break
		}

		best, bestDelta := "", 0
		for _, n := range nodes {
			if !alive[n.ID] {
				continue
			}
			if d := out[n.ID] - in[n.ID]; best == "" || d > bestDelta {
				best, bestDelta = n.ID, d
			}
		}
		remove(best)
		left = append(left, best)
		remaining--
	}

	for i := len(right) - 1; i >= 0; i-- {
		left = append(left, right[i])
	}
	return left
}
