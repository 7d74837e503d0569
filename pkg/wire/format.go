package wire

import "errors"

// Constants for the bloom binary protocol.
const (
	// Magic identifies a bloom payload. Spells "BLOM" when the four
	// little-endian bytes are read in memory order M, O, L, B.
	Magic = uint32(0x424C4F4D)

	// Version is the only protocol version this package reads and writes.
	Version = uint16(1)

	// HeaderSize is the fixed size of the payload header:
	// 4 bytes (magic) + 2 (version) + 4 (node count) + 4 (edge count) +
	// 2 (flags) = 16 bytes.
	HeaderSize = 16
)

// Flag bits carried in the header's flags field.
const (
	// FlagCompressed marks transport-level compression. The decoder
	// tolerates the bit but does not interpret it; decompression is the
	// transport's job and must happen before Decode sees the bytes.
	FlagCompressed = uint16(1 << 0)

	// FlagHasLabels marks the presence of the string table between the
	// header and the node columns.
	FlagHasLabels = uint16(1 << 1)

	// FlagHasWeights is reserved for a future edge-weight column. Never
	// emitted, tolerated on input.
	FlagHasWeights = uint16(1 << 2)
)

// Sentinel errors for decoding failures. Decode wraps these with positional
// detail; match with errors.Is.
var (
	// ErrTruncated indicates the buffer ended before a required field.
	ErrTruncated = errors.New("truncated buffer")

	// ErrBadMagic indicates the payload does not start with [Magic].
	ErrBadMagic = errors.New("bad magic")

	// ErrVersion indicates a protocol version this package does not read.
	ErrVersion = errors.New("unsupported version")

	// ErrOutOfRange indicates a declared offset or length that points past
	// the end of the buffer or its string blob.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrInvalidText indicates label bytes that are not valid UTF-8.
	ErrInvalidText = errors.New("invalid utf-8 text")
)

// Header is the decoded fixed-size header of a payload.
type Header struct {
	Version   uint16
	NodeCount uint32
	EdgeCount uint32
	Flags     uint16
}

// HasLabels reports whether the payload carries a string table.
func (h Header) HasLabels() bool { return h.Flags&FlagHasLabels != 0 }

// Compressed reports whether the transport marked the payload compressed.
func (h Header) Compressed() bool { return h.Flags&FlagCompressed != 0 }
