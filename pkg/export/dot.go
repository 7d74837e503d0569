package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/bloomlab/bloom/pkg/graph"
)

// DOTOptions configures DOT output.
type DOTOptions struct {
	// Scores includes each node's score in its label when true.
	Scores bool
}

// ToDOT converts a graph to Graphviz DOT format for inspection with standard
// tooling (dot, neato, xdot). Edges are emitted undirected to match the
// adjacency semantics of the graph model.
func ToDOT(g *graph.Graph, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  node [shape=circle, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := n.Label
		if label == "" {
			label = strconv.FormatUint(uint64(n.ID), 10)
		}
		if opts.Scores {
			label = fmt.Sprintf("%s\n%.4f", label, n.Score)
		}
		fmt.Fprintf(&buf, "  %d [label=%q];\n", n.ID, label)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %d -- %d;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// WriteDOT writes the DOT representation of a graph to w.
func WriteDOT(g *graph.Graph, w io.Writer, opts DOTOptions) error {
	if _, err := io.WriteString(w, ToDOT(g, opts)); err != nil {
		return fmt.Errorf("write dot: %w", err)
	}
	return nil
}
