// Package transform prepares a directed graph for layered layout.
//
// # Overview
//
// Relationship graphs drawn from a schema are arbitrary: they may contain
// cycles, self-references and edges between tables far apart. A layered
// layout needs a graph in which every edge joins consecutive rows. [Prepare]
// gets there in four steps:
//
//  1. [BreakCycles] reverses a greedy feedback arc set.
//  2. [AssignLayers] places nodes by longest path from the sources.
//  3. [TightenLayers] pulls nodes towards their neighbours to shorten edges.
//  4. [Subdivide] splits the remaining long edges with virtual nodes.
//
// # Cycle Breaking
//
// Unlike a DFS that simply drops back-edges, [BreakCycles] keeps every
// relationship: a feedback edge u→v is replaced by v→u and flagged with
// [MetaReversed]. Renderers draw the original orientation; only ranking sees
// the reversed one.
//
// # Usage
//
//	res := transform.Prepare(g)
//	log.Debug("prepared", "reversed", len(res.Reversed), "virtual", res.VirtualAdded)
//
// For fine-grained control apply the steps individually in the order above.
package transform
