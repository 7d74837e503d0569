package analytics

import "github.com/bloomlab/bloom/pkg/graph"

// Communities partitions the graph's nodes into communities by Louvain
// modularity optimization: greedy local moves until no single move improves
// modularity, then aggregation of communities into super-nodes, repeated
// until a full level yields no improvement.
//
// The result holds one community id per node, index-aligned with the node
// sequence. Ids are compacted to 0..k-1 in first-seen node order, which makes
// them stable for a given graph, but the only contractual guarantee is that
// nodes share an id exactly when they share a community. Isolated nodes end
// as singletons; disconnected components terminate normally. An empty graph
// returns an empty slice.
func Communities(g *graph.Graph) []int {
	n := g.NodeCount()
	if n == 0 {
		return []int{}
	}

	lg := buildLevel(g)

	// membership[i] tracks which current-level node the original node i has
	// been folded into.
	membership := make([]int, n)
	for i := range membership {
		membership[i] = i
	}

	for {
		assign, moved := lg.localMoves()
		if !moved {
			break
		}
		compact := compactIDs(assign)
		for i := range membership {
			membership[i] = compact[membership[i]]
		}
		next := lg.aggregate(compact)
		if next.size() == lg.size() {
			break
		}
		lg = next
	}

	return compactIDs(membership)
}

// levelEdge is one half of an undirected weighted edge at the current level.
type levelEdge struct {
	to     int
	weight float64
}

// level is the working graph of one Louvain aggregation level. Parallel edges
// from the input collapse into edge weights as levels aggregate; self-loops
// hold intra-community weight.
type level struct {
	adj   [][]levelEdge
	loop  []float64 // self-loop weight per node
	deg   []float64 // weighted degree, self-loops counted twice
	total float64   // sum of all degrees (2m)
}

func (lg *level) size() int { return len(lg.adj) }

// buildLevel converts the input graph into the first working level with unit
// edge weights.
func buildLevel(g *graph.Graph) *level {
	n := g.NodeCount()
	lg := &level{
		adj:  make([][]levelEdge, n),
		loop: make([]float64, n),
		deg:  make([]float64, n),
	}
	for _, e := range g.Edges() {
		i, ok := g.IndexOf(e.Source)
		if !ok {
			continue
		}
		j, ok := g.IndexOf(e.Target)
		if !ok {
			continue
		}
		if i == j {
			lg.loop[i]++
			lg.deg[i] += 2
			continue
		}
		lg.adj[i] = append(lg.adj[i], levelEdge{to: j, weight: 1})
		lg.adj[j] = append(lg.adj[j], levelEdge{to: i, weight: 1})
		lg.deg[i]++
		lg.deg[j]++
	}
	for _, d := range lg.deg {
		lg.total += d
	}
	return lg
}

// localMoves greedily reassigns nodes to the neighbor community with the best
// modularity gain until a full pass makes no move. Returns the community of
// each node and whether any move happened at all.
func (lg *level) localMoves() (assign []int, moved bool) {
	n := lg.size()
	assign = make([]int, n)
	sumTot := make([]float64, n)
	for i := range assign {
		assign[i] = i
		sumTot[i] = lg.deg[i]
	}
	if lg.total == 0 {
		// Edgeless level: every node stays a singleton.
		return assign, false
	}

	// neighWeight accumulates edge weight from the current node into each
	// adjacent community; reset lazily via the touched list.
	neighWeight := make([]float64, n)
	var touched []int

	for {
		movedInPass := false
		for i := 0; i < n; i++ {
			current := assign[i]

			touched = touched[:0]
			for _, e := range lg.adj[i] {
				c := assign[e.to]
				if neighWeight[c] == 0 {
					touched = append(touched, c)
				}
				neighWeight[c] += e.weight
			}

			// Take i out of its community before weighing alternatives.
			sumTot[current] -= lg.deg[i]

			best := current
			bestGain := neighWeight[current] - lg.deg[i]*sumTot[current]/lg.total
			for _, c := range touched {
				if c == current {
					continue
				}
				gain := neighWeight[c] - lg.deg[i]*sumTot[c]/lg.total
				if gain > bestGain {
					best, bestGain = c, gain
				}
			}

			sumTot[best] += lg.deg[i]
			assign[i] = best
			if best != current {
				movedInPass = true
				moved = true
			}

			for _, c := range touched {
				neighWeight[c] = 0
			}
		}
		if !movedInPass {
			return assign, moved
		}
	}
}

// aggregate folds each community into a single super-node, with communities
// named by their compacted per-node ids. Intra-community weight (including
// existing self-loops) becomes the super-node's self-loop; inter-community
// weights are summed into single edges.
func (lg *level) aggregate(compact []int) *level {
	k := 0
	for _, c := range compact {
		if c >= k {
			k = c + 1
		}
	}
	next := &level{
		adj:   make([][]levelEdge, k),
		loop:  make([]float64, k),
		deg:   make([]float64, k),
		total: lg.total,
	}

	// weight[b] accumulates edge weight from the current super-node into
	// super-node b; reset via the touched list after each row.
	weight := make([]float64, k)
	var touched []int
	byCommunity := make([][]int, k)
	for i, c := range compact {
		byCommunity[c] = append(byCommunity[c], i)
	}

	for a := 0; a < k; a++ {
		touched = touched[:0]
		for _, i := range byCommunity[a] {
			next.loop[a] += lg.loop[i]
			for _, e := range lg.adj[i] {
				b := compact[e.to]
				if b == a {
					// Both halves of the edge land here, so the loop
					// weight arrives in halves.
					next.loop[a] += e.weight / 2
					continue
				}
				if weight[b] == 0 {
					touched = append(touched, b)
				}
				weight[b] += e.weight
			}
		}
		for _, b := range touched {
			next.adj[a] = append(next.adj[a], levelEdge{to: b, weight: weight[b]})
			weight[b] = 0
		}
		next.deg[a] = 2 * next.loop[a]
		for _, e := range next.adj[a] {
			next.deg[a] += e.weight
		}
	}
	return next
}

// compactIDs renumbers arbitrary community labels to 0..k-1 in first-seen
// order.
func compactIDs(assign []int) []int {
	remap := make(map[int]int, len(assign))
	out := make([]int, len(assign))
	for i, c := range assign {
		id, ok := remap[c]
		if !ok {
			id = len(remap)
			remap[c] = id
		}
		out[i] = id
	}
	return out
}
