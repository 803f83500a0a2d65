package layout

import (
	"math"

	"github.com/matzehuels/schemaflow/pkg/dag"
)

const alignPasses = 8

// extent is a node's padded size split by axis: along the rank (the axis
// nodes of one rank are spread over) and across it (the rank's thickness).
type extent struct {
	along, across float64
}

type point struct{ x, y float64 }

// assignCoordinates computes node centers from the rank orders.
//
// Ranks are stacked along the primary axis, each as thick as its thickest
// node and separated by RankSep. Within a rank, nodes are pulled towards the
// mean position of their neighbours in the adjacent rank, alternating
// downward and upward passes, subject to a minimum center distance of
// along_a/2 + sep + along_b/2 between neighbours. Each pass solves that
// constrained placement exactly with isotonic regression.
//
// The returned width and height include the margin on both sides.
func assignCoordinates(g *dag.DAG, orders map[int][]string, ext map[string]extent, cfg Config) (map[string]point, float64, float64) {
	rows := g.RowIDs()
	centers := make(map[string]point, g.NodeCount())
	if len(rows) == 0 {
		return centers, 0, 0
	}

	rankPos := make(map[int]float64, len(rows))
	cursor := cfg.Margin
	for i, row := range rows {
		thick := 0.0
		for _, id := range orders[row] {
			thick = max(thick, ext[id].across)
		}
		if i > 0 {
			cursor += cfg.RankSep
		}
		rankPos[row] = cursor + thick/2
		cursor += thick
	}
	acrossTotal := cursor + cfg.Margin

	along := make(map[string]float64, g.NodeCount())
	gaps := make(map[int][]float64, len(rows))
	for _, row := range rows {
		order := orders[row]
		gs := make([]float64, max(len(order)-1, 0))
		for i := range gs {
			a, b := order[i], order[i+1]
			gs[i] = ext[a].along/2 + separation(g, a, b, cfg) + ext[b].along/2
		}
		gaps[row] = gs

		pos := 0.0
		for i, id := range order {
			if i > 0 {
				pos += gs[i-1]
			}
			along[id] = pos
		}
	}

	for pass := range alignPasses {
		down := pass%2 == 0
		for i := range rows {
			idx := i
			if !down {
				idx = len(rows) - 1 - i
			}
			row := rows[idx]
			order := orders[row]
			targets := make([]float64, len(order))
			for j, id := range order {
				nbrs := g.Parents(id)
				if !down {
					nbrs = g.Children(id)
				}
				targets[j] = meanPosition(nbrs, along, along[id])
			}
			for j, v := range placeRank(targets, gaps[row]) {
				along[order[j]] = v
			}
		}
	}

	// Virtual nodes only steer placement; the margin is measured from tables.
	lo, hi := math.Inf(1), math.Inf(-1)
	for id, v := range along {
		if n, _ := g.Node(id); n.IsVirtual() {
			continue
		}
		lo = min(lo, v-ext[id].along/2)
		hi = max(hi, v+ext[id].along/2)
	}
	shift := cfg.Margin - lo
	alongTotal := hi - lo + 2*cfg.Margin

	for _, row := range rows {
		for _, id := range orders[row] {
			a, r := along[id]+shift, rankPos[row]
			if cfg.Direction == TB {
				centers[id] = point{x: a, y: r}
			} else {
				centers[id] = point{x: r, y: a}
			}
		}
	}

	if cfg.Direction == TB {
		return centers, alongTotal, acrossTotal
	}
	return centers, acrossTotal, alongTotal
}

// separation is NodeSep between tables, EdgeSep between virtual nodes and
// the mean of the two for a mixed pair.
func separation(g *dag.DAG, a, b string, cfg Config) float64 {
	na, _ := g.Node(a)
	nb, _ := g.Node(b)
	switch {
	case na.IsVirtual() && nb.IsVirtual():
		return cfg.EdgeSep
	case na.IsVirtual() || nb.IsVirtual():
		return (cfg.NodeSep + cfg.EdgeSep) / 2
	default:
		return cfg.NodeSep
	}
}

func meanPosition(nbrs []string, pos map[string]float64, fallback float64) float64 {
	if len(nbrs) == 0 {
		return fallback
	}
	sum := 0.0
	for _, id := range nbrs {
		sum += pos[id]
	}
	return sum / float64(len(nbrs))
}

// placeRank returns positions x minimizing Σ(x_i - targets_i)² subject to
// x_{i+1} - x_i ≥ gaps_i. Substituting y_i = x_i - offset_i turns the gap
// constraints into y being non-decreasing, which pool-adjacent-violators
// solves in linear time.
func placeRank(targets, gaps []float64) []float64 {
	n := len(targets)
	offset := make([]float64, n)
	for i := 1; i < n; i++ {
		offset[i] = offset[i-1] + gaps[i-1]
	}

	type block struct {
		sum   float64
		count int
	}
	mean := func(b block) float64 { return b.sum / float64(b.count) }

	blocks := make([]block, 0, n)
	for i, t := range targets {
		blocks = append(blocks, block{sum: t - offset[i], count: 1})
		for len(blocks) > 1 {
			last, prev := blocks[len(blocks)-1], blocks[len(blocks)-2]
			if mean(prev) <= mean(last) {
				break
			}
			blocks = blocks[:len(blocks)-2]
			blocks = append(blocks, block{sum: prev.sum + last.sum, count: prev.count + last.count})
		}
	}

	out := make([]float64, 0, n)
	for _, b := range blocks {
		m := mean(b)
		for range b.count {
			out = append(out, m+offset[len(out)])
		}
	}
	return out
}
