// Package wire implements the primitive byte codec shared by every
// higher-level pgdmp component: fixed-width little-endian integers, the
// length-prefixed string, and the sign-magnitude variable-width integer
// that carries every size/offset/count field in the format. The two
// varint widths (integer size, offset size) are negotiated once by the
// archive header and threaded through every Reader/Writer constructed
// for that archive.
package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/pgdmp-go/pgdmp/internal/pool"
)

// MaxStringLength bounds a single encoded string's length to keep a
// corrupt or adversarial length prefix from driving an unbounded
// allocation on read; pg_dump never emits a TOC string anywhere near
// this size.
const MaxStringLength = 1 << 30

// Writer accumulates the byte-codec primitives into a pooled buffer.
// It is not safe for concurrent use.
type Writer struct {
	buf     *pool.ByteBuffer
	intSize int
	offSize int
}

// NewWriter creates a Writer configured with the archive's negotiated
// integer and offset widths (typically 4 and 8).
func NewWriter(intSize, offSize int) *Writer {
	return &Writer{
		buf:     pool.GetBlobBuffer(),
		intSize: intSize,
		offSize: offSize,
	}
}

// Bytes returns the bytes written so far. The returned slice shares the
// Writer's internal buffer and must not be retained past the next write
// or Release call.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.buf.Len() }

// Release returns the Writer's buffer to the pool. The Writer must not
// be used afterward.
func (w *Writer) Release() {
	if w.buf != nil {
		pool.PutBlobBuffer(w.buf)
		w.buf = nil
	}
}

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf.Grow(1)
	w.buf.MustWrite([]byte{v})
}

// WriteUint16 appends a 2-byte little-endian unsigned integer.
func (w *Writer) WriteUint16(v uint16) {
	w.buf.Grow(2)
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.MustWrite(b[:])
}

// WriteUint32 appends a 4-byte little-endian unsigned integer.
func (w *Writer) WriteUint32(v uint32) {
	w.buf.Grow(4)
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.MustWrite(b[:])
}

// WriteBytes appends raw bytes with no framing.
func (w *Writer) WriteBytes(b []byte) {
	w.buf.Grow(len(b))
	w.buf.MustWrite(b)
}

// WriteInt writes v as a sign-magnitude variable integer using the
// archive's configured integer size.
func (w *Writer) WriteInt(v int64) {
	w.writeVarInt(w.intSize, v)
}

// WriteNullInt writes the null-sentinel variant of an integer field (the
// sign byte 2 described in spec.md §4.1), used by fields that
// distinguish "absent" from zero.
func (w *Writer) WriteNullInt() {
	w.writeNullVarInt(w.intSize)
}

// WriteOffset writes v as a sign-magnitude variable integer using the
// archive's configured offset size.
func (w *Writer) WriteOffset(v int64) {
	w.writeVarInt(w.offSize, v)
}

func (w *Writer) writeVarInt(width int, v int64) {
	w.buf.Grow(1 + width)
	start := w.buf.Len()
	w.buf.ExtendOrGrow(1 + width)
	encodeVarInt(w.buf.Slice(start, start+1+width), width, v)
}

func (w *Writer) writeNullVarInt(width int) {
	w.buf.Grow(1 + width)
	start := w.buf.Len()
	w.buf.ExtendOrGrow(1 + width)
	encodeNullVarInt(w.buf.Slice(start, start+1+width), width)
}

// WriteString writes a length-prefixed string: a signed variable
// integer length (using the configured integer size) followed by that
// many bytes. A nil pointer encodes as length -1 (null); a non-nil
// pointer to "" encodes as length 0 (empty) — the two round-trip
// distinctly, per spec.md §8.
func (w *Writer) WriteString(s *string) error {
	if s == nil {
		w.WriteInt(-1)
		return nil
	}
	if len(*s) > MaxStringLength {
		return fmt.Errorf("string length %d exceeds maximum %d", len(*s), MaxStringLength)
	}
	w.WriteInt(int64(len(*s)))
	w.WriteBytes([]byte(*s))
	return nil
}

// WriteStringValue is a convenience wrapper over WriteString for the
// common case of a non-nullable string (written as empty, never null).
func (w *Writer) WriteStringValue(s string) error {
	return w.WriteString(&s)
}
