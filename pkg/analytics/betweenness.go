package analytics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/bloomlab/bloom/pkg/graph"
)

// Betweenness computes betweenness centrality for every node via Brandes'
// accumulation: one BFS shortest-path DAG per source, dependencies propagated
// back in reverse visit order. O(V·E) for unweighted graphs.
//
// The result is index-aligned with the node sequence. Endpoints of a pair
// contribute nothing to their own pair, so isolated and degree-one leaf nodes
// score 0. Because the graph is undirected every pair is accumulated from
// both ends, and the final scores are halved to count each pair once. No
// further normalization is applied.
func Betweenness(g *graph.Graph) []float64 {
	n := g.NodeCount()
	scores := make([]float64, n)
	if n == 0 {
		return scores
	}

	adj, _ := adjacency(g)

	// Reused across sources.
	dist := make([]int, n)
	sigma := make([]float64, n)
	delta := make([]float64, n)
	order := make([]int, 0, n)

	for s := 0; s < n; s++ {
		order = order[:0]
		for i := range dist {
			dist[i] = -1
			sigma[i] = 0
			delta[i] = 0
		}
		dist[s] = 0
		sigma[s] = 1

		queue := []int{s}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			order = append(order, u)
			for _, v := range adj[u] {
				if dist[v] == -1 {
					dist[v] = dist[u] + 1
					queue = append(queue, v)
				}
				if dist[v] == dist[u]+1 {
					sigma[v] += sigma[u]
				}
			}
		}

		// Accumulate dependencies in reverse BFS order.
		for i := len(order) - 1; i >= 0; i-- {
			u := order[i]
			for _, v := range adj[u] {
				if dist[v] == dist[u]+1 {
					delta[u] += sigma[u] / sigma[v] * (1 + delta[v])
				}
			}
			if u != s {
				scores[u] += delta[u]
			}
		}
	}

	// Undirected: each pair was counted from both endpoints.
	floats.Scale(0.5, scores)
	return scores
}
