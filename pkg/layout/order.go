package layout

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/schemaflow/pkg/dag"
)

const (
	maxOrderIterations = 24
	maxStaleIterations = 4
	maxTransposePasses = 8
)

// orderRanks orders the nodes of every row to reduce crossings and returns
// the best ordering found together with its crossing count.
//
// The initial order comes from a depth-first walk, so connected tables start
// out close together. It is then refined by alternating barycenter sweeps,
// each followed by adjacent transposition. The best ordering seen is kept;
// the loop stops after maxStaleIterations rounds without improvement.
func orderRanks(g *dag.DAG) (map[int][]string, int) {
	orders := initialOrder(g)
	best, bestCrossings := cloneOrders(orders), dag.CountCrossings(g, orders)

	stale := 0
	for i := 0; i < maxOrderIterations && stale < maxStaleIterations && bestCrossings > 0; i++ {
		sweep(g, orders, i%2 == 0)
		transpose(g, orders)

		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			best, bestCrossings = cloneOrders(orders), c
			stale = 0
		} else {
			stale++
		}
	}
	return best, bestCrossings
}

func initialOrder(g *dag.DAG) map[int][]string {
	orders := make(map[int][]string, g.RowCount())
	visited := make(map[string]bool, g.NodeCount())

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		n, _ := g.Node(id)
		orders[n.Row] = append(orders[n.Row], id)
		for _, c := range g.Children(id) {
			visit(c)
		}
	}

	for _, row := range g.RowIDs() {
		for _, n := range g.NodesInRow(row) {
			visit(n.ID)
		}
	}
	return orders
}

// sweep reorders each row by the mean position of its neighbours in the
// previous row of the sweep. Downward sweeps look at parents, upward sweeps
// at children. Nodes without such neighbours keep their current index.
func sweep(g *dag.DAG, orders map[int][]string, down bool) {
	rows := slices.Sorted(maps.Keys(orders))
	if !down {
		slices.Reverse(rows)
	}
	for i := 1; i < len(rows); i++ {
		row, ref := rows[i], rows[i-1]
		refPos := dag.PosMap(orders[ref])

		type entry struct {
			id   string
			bary float64
		}
		entries := make([]entry, len(orders[row]))
		for j, id := range orders[row] {
			nbrs := g.Children(id)
			if down {
				nbrs = g.Parents(id)
			}
			entries[j] = entry{id: id, bary: barycenter(nbrs, refPos, float64(j))}
		}
		slices.SortStableFunc(entries, func(a, b entry) int { return cmp.Compare(a.bary, b.bary) })
		for j, e := range entries {
			orders[row][j] = e.id
		}
	}
}

func barycenter(nbrs []string, pos map[string]int, fallback float64) float64 {
	sum, n := 0.0, 0
	for _, id := range nbrs {
		if p, ok := pos[id]; ok {
			sum += float64(p)
			n++
		}
	}
	if n == 0 {
		return fallback
	}
	return sum / float64(n)
}

// transpose swaps adjacent nodes while that lowers the crossings with both
// neighbouring rows.
func transpose(g *dag.DAG, orders map[int][]string) {
	for range maxTransposePasses {
		improved := false
		for row, order := range sortedRows(orders) {
			above := dag.PosMap(orders[row-1])
			below := dag.PosMap(orders[row+1])
			for i := 0; i+1 < len(order); i++ {
				u, v := order[i], order[i+1]
				if pairCrossings(g, v, u, above, below) < pairCrossings(g, u, v, above, below) {
					order[i], order[i+1] = v, u
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

func pairCrossings(g *dag.DAG, left, right string, above, below map[string]int) int {
	return dag.CountPairCrossingsWithPos(g, left, right, above, true) +
		dag.CountPairCrossingsWithPos(g, left, right, below, false)
}

func sortedRows(orders map[int][]string) func(yield func(int, []string) bool) {
	return func(yield func(int, []string) bool) {
		for _, row := range slices.Sorted(maps.Keys(orders)) {
			if !yield(row, orders[row]) {
				return
			}
		}
	}
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for row, ids := range orders {
		out[row] = slices.Clone(ids)
	}
	return out
}
