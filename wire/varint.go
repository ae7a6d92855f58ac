package wire

import "fmt"

// sign-magnitude varint sign bytes.
const (
	signPositive byte = 0
	signNegative byte = 1
	signNull     byte = 2
)

// maxVarIntWidth bounds the magnitude width accepted from an archive
// header's intsize/offsize bytes. pg_dump has only ever written 4 or 8;
// a header claiming more is almost certainly corrupt, not forward
// compatibility, so it is rejected as a format error rather than honored.
const maxVarIntWidth = 8

// encodeVarInt writes value as a sign-magnitude integer of the given
// byte width into dst, returning the number of bytes written (1+width).
// dst must have at least 1+width bytes of capacity.
func encodeVarInt(dst []byte, width int, value int64) int {
	sign := signPositive
	mag := uint64(value)
	if value < 0 {
		sign = signNegative
		mag = uint64(-value)
	}

	dst[0] = sign
	for i := 0; i < width; i++ {
		dst[1+i] = byte(mag)
		mag >>= 8
	}

	return 1 + width
}

// encodeNullVarInt writes the null-sentinel sign byte followed by
// width zero magnitude bytes.
func encodeNullVarInt(dst []byte, width int) int {
	dst[0] = signNull
	for i := 0; i < width; i++ {
		dst[1+i] = 0
	}
	return 1 + width
}

// decodeVarInt reads a sign-magnitude integer of the given byte width
// from src (which must hold at least 1+width bytes), returning the
// value, whether it was the null sentinel, and a format error for an
// unrecognized sign byte or a magnitude that overflows int64.
func decodeVarInt(src []byte, width int) (value int64, isNull bool, err error) {
	if width < 1 || width > maxVarIntWidth {
		return 0, false, fmt.Errorf("invalid varint width %d", width)
	}
	if len(src) < 1+width {
		return 0, false, fmt.Errorf("truncated varint: need %d bytes, have %d", 1+width, len(src))
	}

	sign := src[0]
	if sign == signNull {
		return 0, true, nil
	}
	if sign != signPositive && sign != signNegative {
		return 0, false, fmt.Errorf("unrecognized varint sign byte 0x%02x", sign)
	}

	var mag uint64
	for i := width - 1; i >= 0; i-- {
		mag = (mag << 8) | uint64(src[1+i])
	}

	if sign == signNegative {
		if mag > 1<<63 {
			return 0, false, fmt.Errorf("varint magnitude %d overflows int64", mag)
		}
		// mag == 1<<63 is math.MinInt64, representable only with the
		// negative sign; the int64(mag) conversion wraps to the correct
		// two's-complement bit pattern.
		return -int64(mag), false, nil
	}

	if mag > 1<<63-1 {
		return 0, false, fmt.Errorf("varint magnitude %d overflows int64", mag)
	}

	return int64(mag), false, nil
}
