package graph

// Graph owns an ordered node sequence, an ordered edge sequence, and an
// id→index map derived once at construction. A node's index is its position
// in [Graph.Nodes] and is stable for the graph's lifetime.
//
// Topology is immutable after [New]: no nodes or edges can be added or
// removed. Node scalars (Score, X, Y) may be mutated in place through the
// pointers returned by [Graph.NodeByID] or the slice returned by
// [Graph.Nodes]; doing so never invalidates the id index.
type Graph struct {
	nodes []Node
	edges []Edge
	byID  map[uint32]int
}

// New builds a graph from the given node and edge sequences and indexes the
// nodes by id. The graph takes ownership of both slices; callers must not
// append to or reorder them afterwards.
//
// Node ids are expected to be unique. New does not defend against duplicates:
// when two nodes share an id, the later one wins the index slot and the
// earlier one is only reachable by position. That is a documented caller
// responsibility, not a checked invariant.
func New(nodes []Node, edges []Edge) *Graph {
	byID := make(map[uint32]int, len(nodes))
	for i, n := range nodes {
		byID[n.ID] = i
	}
	return &Graph{nodes: nodes, edges: edges, byID: byID}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns the backing node slice. Callers may mutate element scalars in
// place but must not append, remove, or reorder.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns the backing edge slice, read-only by convention.
func (g *Graph) Edges() []Edge { return g.edges }

// NodeByID returns a pointer to the node with the given id, or false when no
// node carries it. The pointer aliases the graph's backing array, so scalar
// writes through it are visible to every other reader.
func (g *Graph) NodeByID(id uint32) (*Node, bool) {
	i, ok := g.byID[id]
	if !ok {
		return nil, false
	}
	return &g.nodes[i], true
}

// IndexOf returns the position of the node with the given id, or false when
// the id is unknown.
func (g *Graph) IndexOf(id uint32) (int, bool) {
	i, ok := g.byID[id]
	return i, ok
}

// Neighbors returns the ids adjacent to id via any edge touching it in either
// position, in edge-sequence order. Parallel edges yield duplicates — no
// dedup guarantee is made. A self-loop contributes the node's own id once.
// An unknown or isolated id yields nil.
func (g *Graph) Neighbors(id uint32) []uint32 {
	var out []uint32
	for _, e := range g.edges {
		switch {
		case e.Source == id:
			out = append(out, e.Target)
		case e.Target == id:
			out = append(out, e.Source)
		}
	}
	return out
}
