package graph

// Node is a single vertex of a decoded graph.
//
// ID is unique within a graph and stable for the graph's lifetime. Label may
// be empty when the source data carries no string table. Score holds the most
// recent centrality result a caller wrote back (0 until then). Degree is
// informational: it is carried through from the wire data, not re-derived
// from the edge list. X and Y are display coordinates assigned by an external
// layout step; they stay 0 until one runs.
type Node struct {
	ID     uint32
	Label  string
	Score  float32
	Degree uint16
	X      float32
	Y      float32
}

// Edge connects two nodes by id. Adjacency is undirected: an edge contributes
// to the neighbor sets of both endpoints. The (Source, Target) order is
// preserved for callers that care about it.
//
// Endpoints are not validated against the node set. An edge may name an id no
// node carries; such an edge never surfaces through [Graph.Neighbors] lookups
// on the existing side's missing partner.
type Edge struct {
	Source uint32
	Target uint32
}
