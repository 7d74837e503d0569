package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bloomlab/bloom/pkg/graph"
)

// TopNodeCount is the number of highest-ranked nodes included in a report.
const TopNodeCount = 10

// RankedNode is one entry of a report's top-ranked list.
type RankedNode struct {
	ID    uint32  `json:"id"`
	Label string  `json:"label,omitempty"`
	Score float64 `json:"score"`
}

// Report summarizes one analysis run. Every report carries a unique id so
// stored reports can be referenced individually.
type Report struct {
	ID          string       `json:"id"`
	GeneratedAt time.Time    `json:"generated_at"`
	GraphHash   string       `json:"graph_hash,omitempty"`
	NodeCount   int          `json:"node_count"`
	EdgeCount   int          `json:"edge_count"`
	TopNodes    []RankedNode `json:"top_nodes,omitempty"`
	Communities int          `json:"communities,omitempty"`
}

// NewReport assembles a report from a graph and its analysis results.
// scores and communities may be nil when the corresponding stage did not run;
// the related report fields are then left empty. When scores is non-nil its
// length must match the node count, and likewise for communities.
func NewReport(g *graph.Graph, scores []float64, communities []int, graphHash string) *Report {
	r := &Report{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		GraphHash:   graphHash,
		NodeCount:   g.NodeCount(),
		EdgeCount:   g.EdgeCount(),
	}

	if scores != nil {
		r.TopNodes = topNodes(g, scores, TopNodeCount)
	}
	if communities != nil {
		distinct := map[int]bool{}
		for _, c := range communities {
			distinct[c] = true
		}
		r.Communities = len(distinct)
	}

	return r
}

// topNodes returns the n highest-scoring nodes. Ties break toward the lower
// node index so output is deterministic.
func topNodes(g *graph.Graph, scores []float64, n int) []RankedNode {
	nodes := g.Nodes()
	order := make([]int, len(nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if n > len(order) {
		n = len(order)
	}
	out := make([]RankedNode, n)
	for i := 0; i < n; i++ {
		idx := order[i]
		out[i] = RankedNode{ID: nodes[idx].ID, Label: nodes[idx].Label, Score: scores[idx]}
	}
	return out
}

// WriteReport encodes a report as indented JSON.
func WriteReport(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
