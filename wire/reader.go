package wire

import (
	"encoding/binary"
	"io"

	"github.com/pgdmp-go/pgdmp/errs"
)

// Reader reads the byte-codec primitives off an io.Reader, tracking the
// absolute byte offset consumed so far so that format errors can be
// reported with offset context (spec.md §7's propagation policy).
//
// Reader is not safe for concurrent use.
type Reader struct {
	r       io.Reader
	offset  int64
	intSize int
	offSize int
}

// NewReader wraps r with the archive's negotiated integer and offset
// widths.
func NewReader(r io.Reader, intSize, offSize int) *Reader {
	return &Reader{r: r, intSize: intSize, offSize: offSize}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 { return r.offset }

func (r *Reader) readFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(r.r, buf)
	r.offset += int64(read)
	if err != nil {
		return nil, errs.WithOffset(r.offset, "truncated read: wanted %d bytes: %v", n, err)
	}
	return buf, nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.readFull(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a 2-byte little-endian unsigned integer.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.readFull(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads a 4-byte little-endian unsigned integer.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.readFull(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadBytes reads exactly n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.readFull(n)
}

// ReadInt reads a sign-magnitude variable integer using the archive's
// configured integer size. isNull reports whether the null-sentinel
// sign byte was present.
func (r *Reader) ReadInt() (value int64, isNull bool, err error) {
	return r.readVarInt(r.intSize)
}

// ReadOffset reads a sign-magnitude variable integer using the
// archive's configured offset size.
func (r *Reader) ReadOffset() (value int64, isNull bool, err error) {
	return r.readVarInt(r.offSize)
}

func (r *Reader) readVarInt(width int) (int64, bool, error) {
	b, err := r.readFull(1 + width)
	if err != nil {
		return 0, false, err
	}
	v, isNull, err := decodeVarInt(b, width)
	if err != nil {
		return 0, false, errs.WithOffset(r.offset, "%v", err)
	}
	return v, isNull, nil
}

// ReadString reads a length-prefixed string. A length of -1 yields a
// nil pointer (null); a length of 0 yields a pointer to "" (empty) —
// the two are distinguishable, per spec.md §8.
func (r *Reader) ReadString() (*string, error) {
	length, _, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	if length == -1 {
		return nil, nil
	}
	if length < 0 {
		return nil, errs.WithOffset(r.offset, "negative string length %d", length)
	}
	if length > MaxStringLength {
		return nil, errs.WithOffset(r.offset, "string length %d exceeds maximum %d", length, MaxStringLength)
	}
	b, err := r.readFull(int(length))
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// ReadStringValue reads a length-prefixed string and collapses a null
// result to "", for fields the archive model treats as always-present.
func (r *Reader) ReadStringValue() (string, error) {
	s, err := r.ReadString()
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", nil
	}
	return *s, nil
}
