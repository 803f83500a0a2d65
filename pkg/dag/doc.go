// Package dag provides a directed graph organised into rows (ranks) for
// layered diagram layout.
//
// # Overview
//
// Schemaflow draws entity-relationship diagrams with a layered (Sugiyama)
// layout: tables are assigned to ranks, long relationships are split so that
// every edge joins consecutive ranks, and each rank is ordered to keep edge
// crossings low. This package holds the graph those steps operate on.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	_ = g.AddNode(dag.Node{ID: "users", Row: 0})
//	_ = g.AddNode(dag.Node{ID: "posts", Row: 1})
//	_ = g.AddEdge(dag.Edge{From: "users", To: "posts"})
//
// Unlike a map-backed graph, a DAG keeps nodes in insertion order. Every
// query that returns several nodes reports them in that order, so layouts
// computed from the same input are identical run to run.
//
// # Node Kinds
//
// [NodeKindRegular] nodes are tables. [NodeKindVirtual] nodes are inserted
// by the transform package to split an edge spanning several ranks; their
// [Node.MasterID] names the table the edge starts from.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count crossings between ordered
// rows with a Fenwick tree in O(E log V). [CountPairCrossings] evaluates a
// single adjacent swap.
//
// # Concurrency
//
// DAG instances are not safe for concurrent mutation. Read-only queries such
// as crossing counts may run in parallel.
//
// [transform]: github.com/matzehuels/schemaflow/pkg/dag/transform
package dag
