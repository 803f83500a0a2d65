// Package layout places the tables of an entity-relationship graph on a
// plane.
//
// # Pipeline
//
// [Compute] runs a layered (Sugiyama) layout on top of the dag package:
//
//  1. Each table is sized from its column count and padded by
//     [Config.Padding].
//  2. Cycles are broken by reversing a greedy feedback arc set. Reversed
//     relationships are still returned, flagged [Edge.Reversed].
//  3. Ranks come from longest-path layering followed by tightening, which
//     approximates network-simplex ranking.
//  4. Long edges are split with virtual nodes so every edge joins adjacent
//     ranks.
//  5. Ranks are ordered by barycenter sweeps and adjacent transposition,
//     keeping the ordering with the fewest crossings.
//  6. Coordinates are assigned: ranks are RankSep apart and nodes within a
//     rank are at least NodeSep apart, edge to edge.
//
// Internally nodes are placed by their centers. Results report the top-left
// corner of each padded box, so renderers can draw from a consistent corner.
//
// # Positions
//
// A [Result] does not own mutable state. [Result.Positions] seeds a
// [Positions] store which the caller owns and may change, for example when a
// user drags a table. Recomputing a layout never reads that store.
package layout
