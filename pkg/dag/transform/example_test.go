package transform_test

import (
	"fmt"

	"github.com/matzehuels/schemaflow/pkg/dag"
	"github.com/matzehuels/schemaflow/pkg/dag/transform"
)

func ExamplePrepare() {
	g := dag.New(nil)
	for _, id := range []string{"users", "posts", "comments", "audit"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "users", To: "posts"})
	_ = g.AddEdge(dag.Edge{From: "posts", To: "comments"})
	_ = g.AddEdge(dag.Edge{From: "users", To: "comments"})
	_ = g.AddEdge(dag.Edge{From: "comments", To: "users"}) // closes a cycle

	res := transform.Prepare(g)

	fmt.Println("Reversed:", len(res.Reversed))
	fmt.Println("Virtual nodes:", res.VirtualAdded)
	fmt.Println("Max row:", res.MaxRow)
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Reversed: 1
	// Virtual nodes: 2
	// Max row: 2
	// Valid: true
}

func ExampleAssignLayers() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "users"})
	_ = g.AddNode(dag.Node{ID: "posts"})
	_ = g.AddNode(dag.Node{ID: "comments"})
	_ = g.AddEdge(dag.Edge{From: "users", To: "posts"})
	_ = g.AddEdge(dag.Edge{From: "posts", To: "comments"})

	transform.AssignLayers(g)

	for _, n := range g.Nodes() {
		fmt.Println(n.ID, n.Row)
	}
	// Output:
	// users 0
	// posts 1
	// comments 2
}

func ExampleTightenLayers() {
	// Longest-path leaves "tags" on row 0, two rows above comments.
	g := dag.New(nil)
	for _, id := range []string{"users", "posts", "comments", "tags"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "users", To: "posts"})
	_ = g.AddEdge(dag.Edge{From: "posts", To: "comments"})
	_ = g.AddEdge(dag.Edge{From: "tags", To: "comments"})

	transform.AssignLayers(g)
	tags, _ := g.Node("tags")
	fmt.Println("tags before:", tags.Row)

	length := transform.TightenLayers(g)
	fmt.Println("tags after:", tags.Row)
	fmt.Println("total length:", length)
	// Output:
	// tags before: 0
	// tags after: 1
	// total length: 3
}

func ExampleSubdivide() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "users", Row: 0})
	_ = g.AddNode(dag.Node{ID: "audit", Row: 3})
	_ = g.AddEdge(dag.Edge{From: "users", To: "audit"})

	added := transform.Subdivide(g)

	fmt.Println("Added:", added)
	fmt.Println("Nodes:", dag.NodeIDs(g.Nodes()))
	// Output:
	// Added: 2
	// Nodes: [users audit users_v_1 users_v_2]
}

func ExampleBreakCycles() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "A"})
	_ = g.AddNode(dag.Node{ID: "B"})
	_ = g.AddNode(dag.Node{ID: "C"})
	_ = g.AddEdge(dag.Edge{From: "A", To: "B"})
	_ = g.AddEdge(dag.Edge{From: "B", To: "C"})
	_ = g.AddEdge(dag.Edge{From: "C", To: "A"})

	reversed := transform.BreakCycles(g)

	fmt.Println("Reversed:", reversed[0].From, "->", reversed[0].To)
	fmt.Println("Edges after:", g.EdgeCount())
	// Output:
	// Reversed: C -> A
	// Edges after: 3
}
