package transform

import (
	"math"

	"github.com/matzehuels/schemaflow/pkg/dag"
)

// AssignLayers assigns every node a row using the longest-path rule: sources
// sit on row 0 and each other node sits one row below its deepest parent.
//
// The traversal is Kahn's algorithm seeded with the sources in insertion
// order. Existing row assignments are overwritten. The graph must be acyclic;
// run [BreakCycles] first. Nodes on an unbroken cycle stay on row 0.
//
// Time complexity is O(V + E).
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		rows[n.ID] = 0
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}

// TightenLayers shortens edges left long by [AssignLayers] and returns the
// resulting total edge length (the sum of row differences over all edges).
//
// Longest-path layering pushes every node as close to the sources as it can,
// which stretches edges into leaf tables. TightenLayers repeatedly moves
// single nodes within their feasible range, between one below the deepest
// parent and one above the shallowest child, towards whichever side has more
// edges. Every move strictly lowers the total length, so the loop ends; it
// approximates the network-simplex ranking without the spanning-tree
// machinery. Rows are finally shifted so the smallest is 0.
//
// The graph must be acyclic and layered with every edge pointing to a
// greater row.
func TightenLayers(g *dag.DAG) int {
	nodes := g.Nodes()
	rows := make(map[string]int, len(nodes))
	for _, n := range nodes {
		rows[n.ID] = n.Row
	}

	for moved := true; moved; {
		moved = false
		for _, n := range nodes {
			parents, children := g.Parents(n.ID), g.Children(n.ID)
			delta := len(parents) - len(children)
			if delta == 0 {
				continue
			}

			lo, hi := math.MinInt, math.MaxInt
			for _, p := range parents {
				lo = max(lo, rows[p]+1)
			}
			for _, c := range children {
				hi = min(hi, rows[c]-1)
			}

			target := rows[n.ID]
			if delta > 0 && lo != math.MinInt {
				target = lo
			} else if delta < 0 && hi != math.MaxInt {
				target = hi
			}
			if target != rows[n.ID] {
				rows[n.ID] = target
				moved = true
			}
		}
	}

	if len(nodes) > 0 {
		least := math.MaxInt
		for _, r := range rows {
			least = min(least, r)
		}
		for id := range rows {
			rows[id] -= least
		}
	}
	g.SetRows(rows)

	total := 0
	for _, e := range g.Edges() {
		total += rows[e.To] - rows[e.From]
	}
	return total
}
