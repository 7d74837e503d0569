package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/bloomlab/bloom/pkg/graph"
)

// Decode parses a bloom payload into a graph. It is all-or-nothing: on any
// failure the returned graph is nil and no partially decoded state escapes.
// The input buffer is borrowed read-only; label bytes are copied out, so the
// caller may reuse or mutate data after Decode returns.
func Decode(data []byte) (*graph.Graph, error) {
	hdr, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}

	n := int(hdr.NodeCount)
	e := int(hdr.EdgeCount)
	r := &reader{buf: data, off: HeaderSize}

	var labels []string
	if hdr.HasLabels() {
		labels, err = r.stringTable(n)
		if err != nil {
			return nil, err
		}
	}

	ids, err := r.u32s(n, "node ids")
	if err != nil {
		return nil, err
	}
	scores, err := r.f32s(n, "node scores")
	if err != nil {
		return nil, err
	}
	degrees, err := r.u16s(n, "node degrees")
	if err != nil {
		return nil, err
	}
	sources, err := r.u32s(e, "edge sources")
	if err != nil {
		return nil, err
	}
	targets, err := r.u32s(e, "edge targets")
	if err != nil {
		return nil, err
	}

	nodes := make([]graph.Node, n)
	for i := range nodes {
		nodes[i] = graph.Node{ID: ids[i], Score: scores[i], Degree: degrees[i]}
		if labels != nil {
			nodes[i].Label = labels[i]
		}
	}
	edges := make([]graph.Edge, e)
	for i := range edges {
		edges[i] = graph.Edge{Source: sources[i], Target: targets[i]}
	}
	return graph.New(nodes, edges), nil
}

// DecodeHeader parses and validates only the fixed 16-byte header. It is the
// cheap peek used by `bloom inspect` and by the server to reject junk before
// committing to a full decode.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncated, HeaderSize, len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != Magic {
		return Header{}, fmt.Errorf("%w: got 0x%08X, want 0x%08X", ErrBadMagic, magic, Magic)
	}
	hdr := Header{
		Version:   binary.LittleEndian.Uint16(data[4:6]),
		NodeCount: binary.LittleEndian.Uint32(data[6:10]),
		EdgeCount: binary.LittleEndian.Uint32(data[10:14]),
		Flags:     binary.LittleEndian.Uint16(data[14:16]),
	}
	if hdr.Version != Version {
		return Header{}, fmt.Errorf("%w: got %d, want %d", ErrVersion, hdr.Version, Version)
	}
	return hdr, nil
}

// reader is a bounds-checked cursor over the payload body. Every read is
// driven by a count or offset the payload itself declared, so a read past the
// end is reported as [ErrOutOfRange] rather than [ErrTruncated].
type reader struct {
	buf []byte
	off int
}

// take advances the cursor by size bytes and returns the covered slice.
func (r *reader) take(size int, what string) ([]byte, error) {
	if size < 0 || r.off+size > len(r.buf) {
		return nil, fmt.Errorf("%w: %s needs %d bytes at offset %d, buffer is %d", ErrOutOfRange, what, size, r.off, len(r.buf))
	}
	b := r.buf[r.off : r.off+size]
	r.off += size
	return b, nil
}

func (r *reader) u32(what string) (uint32, error) {
	b, err := r.take(4, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) u32s(n int, what string) ([]uint32, error) {
	b, err := r.take(4*n, what)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return out, nil
}

func (r *reader) u16s(n int, what string) ([]uint16, error) {
	b, err := r.take(2*n, what)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return out, nil
}

func (r *reader) f32s(n int, what string) ([]float32, error) {
	b, err := r.take(4*n, what)
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out, nil
}

// stringTable reads the label table: a uint32 total blob length, n uint32
// start offsets, then the blob. Label i spans blob[off[i]:off[i+1]]; the last
// label runs to the blob's end.
func (r *reader) stringTable(n int) ([]string, error) {
	blobLen, err := r.u32("string blob length")
	if err != nil {
		return nil, err
	}
	offsets, err := r.u32s(n, "label offsets")
	if err != nil {
		return nil, err
	}
	blob, err := r.take(int(blobLen), "string blob")
	if err != nil {
		return nil, err
	}

	labels := make([]string, n)
	for i, start := range offsets {
		end := blobLen
		if i+1 < n {
			end = offsets[i+1]
		}
		if start > end || end > blobLen {
			return nil, fmt.Errorf("%w: label %d spans [%d:%d] in a %d-byte blob", ErrOutOfRange, i, start, end, blobLen)
		}
		raw := blob[start:end]
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w: label %d", ErrInvalidText, i)
		}
		labels[i] = string(raw)
	}
	return labels, nil
}
