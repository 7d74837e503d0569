package wire

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/bloomlab/bloom/pkg/graph"
)

// EncodeOptions controls optional parts of the emitted payload.
type EncodeOptions struct {
	// ForceLabels emits the string table even when every label is empty.
	// By default the table is only written when at least one node carries
	// a non-empty label.
	ForceLabels bool
}

// Encode serializes g into a bloom payload that [Decode] reads back to an
// equal graph. Node positions are not part of the format and are dropped.
func Encode(g *graph.Graph, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, g, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes the payload for g to w. Layout matches the package doc:
// header, optional string table, node columns, edge columns, all
// little-endian.
func EncodeTo(w io.Writer, g *graph.Graph, opts EncodeOptions) error {
	nodes := g.Nodes()
	edges := g.Edges()

	withLabels := opts.ForceLabels
	for _, n := range nodes {
		if n.Label != "" {
			withLabels = true
			break
		}
	}

	var flags uint16
	if withLabels {
		flags |= FlagHasLabels
	}

	header := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], Magic)
	binary.LittleEndian.PutUint16(header[4:6], Version)
	binary.LittleEndian.PutUint32(header[6:10], uint32(len(nodes)))
	binary.LittleEndian.PutUint32(header[10:14], uint32(len(edges)))
	binary.LittleEndian.PutUint16(header[14:16], flags)
	if _, err := w.Write(header); err != nil {
		return err
	}

	out := writer{w: w}
	if withLabels {
		var blob bytes.Buffer
		offsets := make([]uint32, len(nodes))
		for i, n := range nodes {
			offsets[i] = uint32(blob.Len())
			blob.WriteString(n.Label)
		}
		out.u32(uint32(blob.Len()))
		for _, off := range offsets {
			out.u32(off)
		}
		out.bytes(blob.Bytes())
	}

	for _, n := range nodes {
		out.u32(n.ID)
	}
	for _, n := range nodes {
		out.u32(math.Float32bits(n.Score))
	}
	for _, n := range nodes {
		out.u16(n.Degree)
	}
	for _, e := range edges {
		out.u32(e.Source)
	}
	for _, e := range edges {
		out.u32(e.Target)
	}
	return out.err
}

// writer accumulates the first write error so the column loops above stay
// free of error plumbing.
type writer struct {
	w   io.Writer
	err error
}

func (o *writer) bytes(b []byte) {
	if o.err == nil {
		_, o.err = o.w.Write(b)
	}
}

func (o *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	o.bytes(b[:])
}

func (o *writer) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	o.bytes(b[:])
}
