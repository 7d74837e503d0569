// Package analytics implements the graph algorithms bloom runs over a decoded
// graph: PageRank centrality, Louvain community detection, unweighted
// single-pair shortest path, and Brandes betweenness centrality.
//
// Every function takes a read-only [graph.Graph] and returns a freshly
// allocated result aligned with the graph's node sequence, so results join
// back to nodes by position. None of them mutate the graph and none of them
// fail: an empty graph yields an empty result, isolated nodes get well-defined
// zero scores or singleton communities, and unknown ids yield an absent
// result rather than an error.
//
// # Determinism
//
// All four algorithms are deterministic for a given graph. Neighbor visit
// order always follows the edge sequence, which is stable, so shortest-path
// tie-breaking and community assignment come out the same on every run.
//
// # Adjacency
//
// Adjacency is undirected and follows [graph.Graph.Neighbors]: every edge
// contributes to both endpoints, parallel edges count once per copy, and a
// node's out-degree for PageRank purposes is simply its neighbor count.
package analytics
