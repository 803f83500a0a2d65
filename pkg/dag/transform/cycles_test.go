package transform

import (
	"testing"

	"github.com/matzehuels/schemaflow/pkg/dag"
)

func build(t *testing.T, ids []string, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for _, id := range ids {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}
	return g
}

func assertAcyclic(t *testing.T, g *dag.DAG) {
	t.Helper()
	if again := BreakCycles(g.Clone()); len(again) != 0 {
		t.Errorf("graph still has feedback edges: %v", again)
	}
}

func TestBreakCycles_NoCycles(t *testing.T) {
	g := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	reversed := BreakCycles(g)

	if len(reversed) != 0 {
		t.Errorf("BreakCycles() reversed %d edges, want 0", len(reversed))
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestBreakCycles_SimpleCycle(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})

	reversed := BreakCycles(g)

	if len(reversed) != 1 {
		t.Fatalf("BreakCycles() reversed %d edges, want 1", len(reversed))
	}
	if reversed[0].From != "b" || reversed[0].To != "a" {
		t.Errorf("reversed = %s->%s, want b->a", reversed[0].From, reversed[0].To)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2 (reversed, not removed)", g.EdgeCount())
	}
	assertAcyclic(t, g)
}

func TestBreakCycles_ReversedEdgeFlagged(t *testing.T) {
	g := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})

	BreakCycles(g)

	flagged := 0
	for _, e := range g.Edges() {
		if e.Meta[MetaReversed] == true {
			flagged++
			if e.From != "a" || e.To != "c" {
				t.Errorf("flagged edge = %s->%s, want a->c", e.From, e.To)
			}
		}
	}
	if flagged != 1 {
		t.Errorf("flagged edges = %d, want 1", flagged)
	}
}

func TestBreakCycles_MultipleCycles(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "d"}, [][2]string{
		{"a", "b"}, {"b", "a"}, {"c", "d"}, {"d", "c"},
	})

	reversed := BreakCycles(g)

	if len(reversed) != 2 {
		t.Errorf("BreakCycles() reversed %d edges, want 2", len(reversed))
	}
	assertAcyclic(t, g)
}

func TestBreakCycles_SelfLoop(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "a"}, {"a", "b"}})

	reversed := BreakCycles(g)

	if len(reversed) != 1 || reversed[0].From != "a" || reversed[0].To != "a" {
		t.Errorf("reversed = %v, want the self-loop", reversed)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestBreakCycles_DiamondNoCycle(t *testing.T) {
	//   a
	//  / \
	// b   c
	//  \ /
	//   d
	g := build(t, []string{"a", "b", "c", "d"}, [][2]string{
		{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"},
	})

	if reversed := BreakCycles(g); len(reversed) != 0 {
		t.Errorf("BreakCycles() reversed %d edges, want 0", len(reversed))
	}
}

func TestBreakCycles_PrefersFewReversals(t *testing.T) {
	// A hub with many outgoing edges and a single edge back into it.
	// Reversing the one back-edge is optimal.
	g := build(t, []string{"leaf", "hub", "x", "y", "z"}, [][2]string{
		{"hub", "x"}, {"hub", "y"}, {"hub", "z"}, {"x", "leaf"}, {"leaf", "hub"},
	})

	reversed := BreakCycles(g)

	if len(reversed) != 1 {
		t.Errorf("BreakCycles() reversed %d edges, want 1", len(reversed))
	}
	assertAcyclic(t, g)
}

func TestBreakCycles_Deterministic(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	edges := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"c", "d"}, {"d", "e"}, {"e", "c"}}

	first := BreakCycles(build(t, ids, edges))
	for range 10 {
		got := BreakCycles(build(t, ids, edges))
		if len(got) != len(first) {
			t.Fatalf("run reversed %d edges, first run %d", len(got), len(first))
		}
		for i := range got {
			if got[i].From != first[i].From || got[i].To != first[i].To {
				t.Fatalf("run differs at %d: %v vs %v", i, got[i], first[i])
			}
		}
	}
}

func TestBreakCycles_EmptyGraph(t *testing.T) {
	if reversed := BreakCycles(dag.New(nil)); len(reversed) != 0 {
		t.Errorf("BreakCycles() reversed %d edges, want 0", len(reversed))
	}
}
