package wire

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarIntRoundTrip(t *testing.T) {
	bounds := map[int][2]int64{
		1: {-(1 << 7), 1<<7 - 1},
		2: {-(1 << 15), 1<<15 - 1},
		4: {-(1 << 31), 1<<31 - 1},
		8: {math.MinInt64, math.MaxInt64},
	}
	for width, b := range bounds {
		values := []int64{0, 1, -1, b[0], b[1], 42, -42}
		for _, v := range values {
			buf := make([]byte, 1+width)
			encodeVarInt(buf, width, v)
			got, isNull, err := decodeVarInt(buf, width)
			require.NoError(t, err)
			require.False(t, isNull)
			require.Equal(t, v, got, "width=%d value=%d", width, v)
		}
	}
}

func TestVarIntNullSentinel(t *testing.T) {
	buf := make([]byte, 1+4)
	encodeNullVarInt(buf, 4)
	_, isNull, err := decodeVarInt(buf, 4)
	require.NoError(t, err)
	require.True(t, isNull)
}

func TestVarIntUnrecognizedSign(t *testing.T) {
	buf := []byte{0x07, 0, 0, 0, 0}
	_, _, err := decodeVarInt(buf, 4)
	require.Error(t, err)
}

func TestWriterReaderInt(t *testing.T) {
	w := NewWriter(4, 8)
	defer w.Release()

	w.WriteInt(12345)
	w.WriteInt(-1)
	w.WriteOffset(9999999999)

	r := NewReader(bytes.NewReader(w.Bytes()), 4, 8)

	v, isNull, err := r.ReadInt()
	require.NoError(t, err)
	require.False(t, isNull)
	require.Equal(t, int64(12345), v)

	v, isNull, err = r.ReadInt()
	require.NoError(t, err)
	require.False(t, isNull)
	require.Equal(t, int64(-1), v)

	v, isNull, err = r.ReadOffset()
	require.NoError(t, err)
	require.False(t, isNull)
	require.Equal(t, int64(9999999999), v)
}

func TestWriterReaderString(t *testing.T) {
	w := NewWriter(4, 8)
	defer w.Release()

	empty := ""
	require.NoError(t, w.WriteString(&empty))
	require.NoError(t, w.WriteString(nil))
	require.NoError(t, w.WriteStringValue("hello world"))

	r := NewReader(bytes.NewReader(w.Bytes()), 4, 8)

	s, err := r.ReadString()
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Equal(t, "", *s)

	s, err = r.ReadString()
	require.NoError(t, err)
	require.Nil(t, s, "null string must round-trip as nil, distinct from empty")

	s, err = r.ReadString()
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Equal(t, "hello world", *s)
}

func TestWriterReaderFixedWidth(t *testing.T) {
	w := NewWriter(4, 8)
	defer w.Release()

	w.WriteUint8(0xAB)
	w.WriteUint16(0x1234)
	w.WriteUint32(0xDEADBEEF)
	w.WriteBytes([]byte("PGDMP"))

	r := NewReader(bytes.NewReader(w.Bytes()), 4, 8)

	u8, err := r.ReadUint8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xAB), u8)

	u16, err := r.ReadUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)

	b, err := r.ReadBytes(5)
	require.NoError(t, err)
	require.Equal(t, []byte("PGDMP"), b)
}

func TestReaderTruncatedInput(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2}), 4, 8)
	_, err := r.ReadUint32()
	require.Error(t, err)
}

func TestBlockFramingValid(t *testing.T) {
	require.True(t, BlockUncompressed.Valid())
	require.True(t, BlockCompressed.Valid())
	require.False(t, BlockFraming(0).Valid())
}
