package wire

import (
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/bloomlab/bloom/pkg/graph"
)

func TestEncode_RoundTrip(t *testing.T) {
	in := graph.New(
		[]graph.Node{
			{ID: 1, Label: "core", Score: 0.5, Degree: 2},
			{ID: 2, Label: "", Score: 0, Degree: 1},
			{ID: 3, Label: "wörld", Score: -1.5, Degree: 0},
		},
		[]graph.Edge{{Source: 1, Target: 2}, {Source: 2, Target: 1}},
	)

	data, err := Encode(in, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if !reflect.DeepEqual(out.Nodes(), in.Nodes()) {
		t.Errorf("nodes = %+v, want %+v", out.Nodes(), in.Nodes())
	}
	if !reflect.DeepEqual(out.Edges(), in.Edges()) {
		t.Errorf("edges = %+v, want %+v", out.Edges(), in.Edges())
	}
}

func TestEncode_OmitsTableWhenUnlabeled(t *testing.T) {
	g := graph.New([]graph.Node{{ID: 1}, {ID: 2}}, nil)

	data, err := Encode(g, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if flags := binary.LittleEndian.Uint16(data[14:16]); flags&FlagHasLabels != 0 {
		t.Errorf("HasLabels set for unlabeled graph")
	}
	// Header + 2 ids + 2 scores + 2 degrees.
	if want := HeaderSize + 2*4 + 2*4 + 2*2; len(data) != want {
		t.Errorf("len = %d, want %d", len(data), want)
	}
}

func TestEncode_ForceLabels(t *testing.T) {
	g := graph.New([]graph.Node{{ID: 1}}, nil)

	data, err := Encode(g, EncodeOptions{ForceLabels: true})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if flags := binary.LittleEndian.Uint16(data[14:16]); flags&FlagHasLabels == 0 {
		t.Error("HasLabels not set with ForceLabels")
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := out.Nodes()[0].Label; got != "" {
		t.Errorf("label = %q, want empty", got)
	}
}

func TestEncode_DropsPositions(t *testing.T) {
	g := graph.New([]graph.Node{{ID: 1, X: 10, Y: 20}}, nil)

	data, err := Encode(g, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n := out.Nodes()[0]; n.X != 0 || n.Y != 0 {
		t.Errorf("position = (%v, %v), want (0, 0) — positions are not on the wire", n.X, n.Y)
	}
}

func TestEncode_EmptyGraph(t *testing.T) {
	data, err := Encode(graph.New(nil, nil), EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(data) != HeaderSize {
		t.Errorf("len = %d, want bare header %d", len(data), HeaderSize)
	}
	if _, err := Decode(data); err != nil {
		t.Errorf("Decode(empty) error = %v", err)
	}
}
