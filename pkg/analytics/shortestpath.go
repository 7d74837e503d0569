package analytics

import "github.com/bloomlab/bloom/pkg/graph"

// ShortestPath finds one shortest path by edge count between two node ids and
// returns it as node indices from source to target inclusive. The second
// return is false when either id is unknown or no path exists.
//
// The search is a plain BFS; among equal-length paths the one whose nodes were
// reached first in edge-sequence order wins, so the result is deterministic
// for a given graph. Source equal to target yields a single-element path. No
// node ever repeats in the result.
func ShortestPath(g *graph.Graph, sourceID, targetID uint32) ([]int, bool) {
	src, ok := g.IndexOf(sourceID)
	if !ok {
		return nil, false
	}
	dst, ok := g.IndexOf(targetID)
	if !ok {
		return nil, false
	}
	if src == dst {
		return []int{src}, true
	}

	adj, _ := adjacency(g)

	prev := make([]int, g.NodeCount())
	for i := range prev {
		prev[i] = -1
	}
	prev[src] = src

	queue := []int{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range adj[u] {
			if prev[v] != -1 {
				continue
			}
			prev[v] = u
			if v == dst {
				return backtrack(prev, src, dst), true
			}
			queue = append(queue, v)
		}
	}
	return nil, false
}

// backtrack walks the predecessor chain from dst to src and reverses it.
func backtrack(prev []int, src, dst int) []int {
	var path []int
	for v := dst; ; v = prev[v] {
		path = append(path, v)
		if v == src {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
