package analytics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/bloomlab/bloom/pkg/graph"
)

// DefaultDamping is the conventional PageRank damping factor.
const DefaultDamping = 0.85

// DefaultIterations is the recommended fixed iteration count. Power iteration
// on graphs of this engine's size settles well within 20–50 rounds; 30 is a
// safe middle.
const DefaultIterations = 30

// PageRank computes power-iteration centrality over g and returns one score
// per node, index-aligned with the node sequence.
//
// Scores start at 1/n. Each iteration a node with neighbors splits
// damping·score evenly across its neighbors; a dangling node (no neighbors)
// spreads damping·score/n to every node, itself included, so no probability
// mass is lost. The remaining (1-damping)/n arrives uniformly. The sum of all
// scores therefore stays at 1 within floating-point tolerance after any
// number of iterations.
//
// The iteration count is fixed; there is no convergence check. An empty graph
// returns an empty slice immediately.
func PageRank(g *graph.Graph, iterations int, damping float64) []float64 {
	n := g.NodeCount()
	if n == 0 {
		return []float64{}
	}

	adj, outdeg := adjacency(g)
	inv := 1 / float64(n)

	score := make([]float64, n)
	for i := range score {
		score[i] = inv
	}
	next := make([]float64, n)

	for it := 0; it < iterations; it++ {
		for i := range next {
			next[i] = 0
		}
		dangling := 0.0
		for j := 0; j < n; j++ {
			if outdeg[j] == 0 {
				dangling += score[j]
				continue
			}
			share := damping * score[j] / float64(outdeg[j])
			for _, i := range adj[j] {
				next[i] += share
			}
		}
		floats.AddConst((1-damping)*inv+damping*dangling*inv, next)
		score, next = next, score
	}
	return score
}

// adjacency resolves the graph's id-based edges into index-based neighbor
// lists, preserving edge-sequence order. outdeg counts every edge touching a
// node — including parallel copies and edges whose far endpoint names no
// known node — matching the Neighbors contract.
func adjacency(g *graph.Graph) (adj [][]int, outdeg []int) {
	n := g.NodeCount()
	adj = make([][]int, n)
	outdeg = make([]int, n)

	add := func(from, to uint32) {
		i, ok := g.IndexOf(from)
		if !ok {
			return
		}
		outdeg[i]++
		if j, ok := g.IndexOf(to); ok {
			adj[i] = append(adj[i], j)
		}
	}
	for _, e := range g.Edges() {
		add(e.Source, e.Target)
		// A self-loop contributes a single neighbor entry, like Neighbors.
		if e.Source != e.Target {
			add(e.Target, e.Source)
		}
	}
	return adj, outdeg
}
