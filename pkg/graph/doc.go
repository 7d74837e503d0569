// Package graph provides the in-memory graph model that the rest of bloom
// operates on: an ordered node sequence, an ordered edge sequence, and an
// O(1) id→index lookup built once at construction.
//
// # Overview
//
// A [Graph] is constructed complete — typically by the wire decoder — and its
// topology never changes afterwards. Algorithms read it and return parallel
// result slices aligned with the node sequence; layout collaborators write
// positions back onto node scalars. Keeping topology frozen means the id
// index never goes stale and result slices can always be joined back to
// nodes by position.
//
// # Basic Usage
//
// Build a graph with [New] and query it:
//
//	g := graph.New(
//		[]graph.Node{{ID: 1, Label: "core"}, {ID: 2, Label: "api"}},
//		[]graph.Edge{{Source: 1, Target: 2}},
//	)
//	g.Neighbors(1)  // [2]
//	g.IndexOf(2)    // 1, true
//
// # Adjacency Semantics
//
// Edges are undirected for adjacency: [Graph.Neighbors] reports ids connected
// through either endpoint. Parallel edges produce duplicate entries and
// self-loops report the node itself once per loop edge. Nothing validates
// that edge endpoints name real nodes; dangling references are simply
// unreachable.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Concurrent read-only use —
// several algorithms walking the same unchanging graph — is safe, because no
// accessor writes to shared state.
package graph
