package wire_test

import (
	"fmt"

	"github.com/bloomlab/bloom/pkg/graph"
	"github.com/bloomlab/bloom/pkg/wire"
)

func Example() {
	g := graph.New(
		[]graph.Node{
			{ID: 1, Label: "core", Degree: 1},
			{ID: 2, Label: "api", Degree: 1},
		},
		[]graph.Edge{{Source: 1, Target: 2}},
	)

	data, err := wire.Encode(g, wire.EncodeOptions{})
	if err != nil {
		panic(err)
	}

	decoded, err := wire.Decode(data)
	if err != nil {
		panic(err)
	}

	n, _ := decoded.NodeByID(2)
	fmt.Println("bytes:", len(data))
	fmt.Println("nodes:", decoded.NodeCount(), "edges:", decoded.EdgeCount())
	fmt.Println("label:", n.Label)
	// Output:
	// bytes: 63
	// nodes: 2 edges: 1
	// label: api
}
