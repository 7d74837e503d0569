package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bloomlab/bloom/pkg/graph"
)

type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID     uint32  `json:"id"`
	Label  string  `json:"label,omitempty"`
	Score  float32 `json:"score,omitempty"`
	Degree uint16  `json:"degree,omitempty"`
	X      float32 `json:"x,omitempty"`
	Y      float32 `json:"y,omitempty"`
}

type jsonEdge struct {
	Source uint32 `json:"source"`
	Target uint32 `json:"target"`
}

// WriteJSON encodes a graph as JSON and writes it to w.
// The output includes all node fields and edges. It can be re-imported with
// [ReadJSON] for round-trip processing.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	out := jsonGraph{
		Nodes: make([]jsonNode, g.NodeCount()),
		Edges: make([]jsonEdge, g.EdgeCount()),
	}

	for i, n := range g.Nodes() {
		out.Nodes[i] = jsonNode{
			ID:     n.ID,
			Label:  n.Label,
			Score:  n.Score,
			Degree: n.Degree,
			X:      n.X,
			Y:      n.Y,
		}
	}
	for i, e := range g.Edges() {
		out.Edges[i] = jsonEdge{Source: e.Source, Target: e.Target}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// ReadJSON decodes a JSON graph from r.
//
// Each node must have an "id" field; ids must be unique. Optional fields
// (label, score, degree, x, y) default to their zero values. Each edge must
// have "source" and "target" fields. Edge endpoints are not validated against
// the node set, matching the binary decoder's tolerance for dangling edges.
//
// The returned graph is independent of r and can be used safely after
// ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var data jsonGraph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	seen := make(map[uint32]bool, len(data.Nodes))
	nodes := make([]graph.Node, len(data.Nodes))
	for i, n := range data.Nodes {
		if seen[n.ID] {
			return nil, fmt.Errorf("node %d: duplicate id", n.ID)
		}
		seen[n.ID] = true
		nodes[i] = graph.Node{
			ID:     n.ID,
			Label:  n.Label,
			Score:  n.Score,
			Degree: n.Degree,
			X:      n.X,
			Y:      n.Y,
		}
	}
	edges := make([]graph.Edge, len(data.Edges))
	for i, e := range data.Edges {
		edges[i] = graph.Edge{Source: e.Source, Target: e.Target}
	}

	return graph.New(nodes, edges), nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. Errors wrap the underlying cause with the file path for context.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
