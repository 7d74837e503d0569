package wire

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/bloomlab/bloom/pkg/graph"
)

// payload hand-builds a wire buffer, byte by byte, following the documented
// layout. Tests use it instead of Encode so the decoder is checked against
// the format spec, not against the encoder.
type payload struct{ buf []byte }

func (p *payload) u16(v uint16) *payload {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	p.buf = append(p.buf, b[:]...)
	return p
}

func (p *payload) u32(v uint32) *payload {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	p.buf = append(p.buf, b[:]...)
	return p
}

func (p *payload) f32(v float32) *payload { return p.u32(math.Float32bits(v)) }

func (p *payload) raw(b []byte) *payload {
	p.buf = append(p.buf, b...)
	return p
}

func header(n, e uint32, flags uint16) *payload {
	p := &payload{}
	return p.u32(Magic).u16(Version).u32(n).u32(e).u16(flags)
}

func TestDecode_HandBuiltFixture(t *testing.T) {
	// Two labeled nodes, one edge. String table: "ab" + "c".
	buf := header(2, 1, FlagHasLabels).
		u32(3).       // blob length
		u32(0).u32(2) // label offsets
	buf.raw([]byte("abc"))
	buf.u32(100).u32(200)    // ids
	buf.f32(0.25).f32(0.75)  // scores
	buf.u16(1).u16(1)        // degrees
	buf.u32(100)             // sources
	buf.u32(200)             // targets

	g, err := Decode(buf.buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := []graph.Node{
		{ID: 100, Label: "ab", Score: 0.25, Degree: 1},
		{ID: 200, Label: "c", Score: 0.75, Degree: 1},
	}
	for i, w := range want {
		if got := g.Nodes()[i]; got != w {
			t.Errorf("node %d = %+v, want %+v", i, got, w)
		}
	}
	if e := g.Edges()[0]; e.Source != 100 || e.Target != 200 {
		t.Errorf("edge = %+v, want 100→200", e)
	}
}

func TestDecode_NoLabels(t *testing.T) {
	buf := header(1, 0, 0).
		u32(7).    // id
		f32(0).    // score
		u16(0)     // degree

	g, err := Decode(buf.buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := g.Nodes()[0].Label; got != "" {
		t.Errorf("label without string table = %q, want empty", got)
	}
}

func TestDecode_CompressedFlagTolerated(t *testing.T) {
	buf := header(0, 0, FlagCompressed|FlagHasWeights)
	if _, err := Decode(buf.buf); err != nil {
		t.Errorf("Decode() with reserved flags error = %v, want nil", err)
	}
}

func TestDecode_Truncated(t *testing.T) {
	for n := 0; n < HeaderSize; n++ {
		if _, err := Decode(make([]byte, n)); !errors.Is(err, ErrTruncated) {
			t.Errorf("Decode(%d bytes) = %v, want ErrTruncated", n, err)
		}
	}
}

func TestDecode_BadMagic(t *testing.T) {
	buf := header(0, 0, 0)
	buf.buf[0] ^= 0xFF
	if _, err := Decode(buf.buf); !errors.Is(err, ErrBadMagic) {
		t.Errorf("Decode() = %v, want ErrBadMagic", err)
	}
}

func TestDecode_UnsupportedVersion(t *testing.T) {
	p := &payload{}
	p.u32(Magic).u16(99).u32(0).u32(0).u16(0)
	if _, err := Decode(p.buf); !errors.Is(err, ErrVersion) {
		t.Errorf("Decode() = %v, want ErrVersion", err)
	}
}

func TestDecode_ColumnsPastBufferEnd(t *testing.T) {
	// Header declares 10 nodes but the body carries none.
	buf := header(10, 0, 0)
	if _, err := Decode(buf.buf); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Decode() = %v, want ErrOutOfRange", err)
	}
}

func TestDecode_LabelOffsetPastBlob(t *testing.T) {
	buf := header(1, 0, FlagHasLabels).
		u32(2).  // blob length
		u32(5)   // offset beyond blob
	buf.raw([]byte("ab"))
	buf.u32(1).f32(0).u16(0)
	if _, err := Decode(buf.buf); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Decode() = %v, want ErrOutOfRange", err)
	}
}

func TestDecode_InvalidUTF8Label(t *testing.T) {
	buf := header(1, 0, FlagHasLabels).
		u32(2).
		u32(0)
	buf.raw([]byte{0xFF, 0xFE})
	buf.u32(1).f32(0).u16(0)
	if _, err := Decode(buf.buf); !errors.Is(err, ErrInvalidText) {
		t.Errorf("Decode() = %v, want ErrInvalidText", err)
	}
}

func TestDecode_BorrowsBufferOnly(t *testing.T) {
	buf := header(1, 0, FlagHasLabels).
		u32(3).
		u32(0)
	buf.raw([]byte("hub"))
	buf.u32(1).f32(0).u16(0)

	g, err := Decode(buf.buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	// Scribbling over the input must not change the decoded graph.
	for i := range buf.buf {
		buf.buf[i] = 0
	}
	if got := g.Nodes()[0].Label; got != "hub" {
		t.Errorf("label after buffer reuse = %q, want %q", got, "hub")
	}
}

func TestDecodeHeader_Peek(t *testing.T) {
	buf := header(3, 2, FlagHasLabels|FlagCompressed)

	hdr, err := DecodeHeader(buf.buf)
	if err != nil {
		t.Fatalf("DecodeHeader() error = %v", err)
	}
	if hdr.NodeCount != 3 || hdr.EdgeCount != 2 {
		t.Errorf("counts = %d/%d, want 3/2", hdr.NodeCount, hdr.EdgeCount)
	}
	if !hdr.HasLabels() || !hdr.Compressed() {
		t.Errorf("flags = %04x, want HasLabels and Compressed set", hdr.Flags)
	}
}
