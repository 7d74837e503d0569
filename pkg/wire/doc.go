// Package wire implements the bloom binary graph format: a compact,
// little-endian, column-oriented encoding of nodes and edges designed to be
// produced once by an exporter and decoded cheaply by the analytics engine.
//
// # Wire Format
//
// Every payload starts with a fixed 16-byte header:
//
//	offset  size  field
//	0       4     magic        0x424C4F4D
//	4       2     version      1
//	6       4     node count   N
//	10      4     edge count   E
//	14      2     flags        bit 0 compressed, bit 1 labels, bit 2 weights
//
// If [FlagHasLabels] is set, a string table follows: a uint32 total blob
// length, then N uint32 start offsets (one per node), then the blob itself.
// Label i spans the blob from offset i to offset i+1; the last label runs to
// the end of the blob. Labels must be valid UTF-8.
//
// After the optional string table come the node columns — ids (uint32×N),
// scores (float32×N), degrees (uint16×N) — followed by the edge columns:
// sources (uint32×E), then targets (uint32×E). Node positions are not part
// of the format; decoded nodes start at (0, 0) until a layout assigns them.
//
// [FlagCompressed] is reserved for transport-level compression and is
// tolerated but not interpreted here; [FlagHasWeights] is reserved for a
// future edge-weight column.
//
// # Decoding
//
// [Decode] is all-or-nothing: it either returns a complete [graph.Graph] or
// an error, never a partially populated graph. Failures are reported through
// sentinel errors ([ErrTruncated], [ErrBadMagic], [ErrVersion],
// [ErrOutOfRange], [ErrInvalidText]) wrapped with positional detail, so
// callers can both match with errors.Is and log a useful message. The input
// buffer is borrowed read-only for the duration of the call; label bytes are
// copied out, so the caller may reuse the buffer afterwards.
//
// # Encoding
//
// [Encode] is the exact inverse and exists for fixtures, round-trip tests,
// and converting graphs from other interchange formats. The string table is
// emitted automatically when any node carries a non-empty label, or can be
// forced with [EncodeOptions].
package wire
