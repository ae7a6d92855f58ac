package convert

import (
	"math/big"
	"net/netip"
	"strconv"
	"time"
)

// Smart infers a richer Go type per field by trying, in order: null,
// integer, IPv4/IPv6 address or network, UUID, ISO-8601 timestamp,
// decimal, and finally falling back to the raw string. Each attempt is a
// strict syntactic parse — a field that merely looks numeric-ish but
// fails strconv.ParseInt falls through to the next candidate rather than
// erroring, since PostgreSQL text dumps carry no column type
// information for Smart to consult (spec.md §4.6).
type Smart struct{}

var _ Converter = Smart{}

// NewSmart creates a Smart converter.
func NewSmart() Smart { return Smart{} }

func (Smart) Convert(fields []string) ([]any, error) {
	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = smartConvertField(f)
	}
	return out, nil
}

func smartConvertField(f string) any {
	if f == nullToken {
		return nil
	}
	if f == "" {
		return f
	}

	if v, err := strconv.ParseInt(f, 10, 64); err == nil {
		return v
	}

	if addr, err := netip.ParseAddr(f); err == nil {
		return addr
	}
	if prefix, err := netip.ParsePrefix(f); err == nil {
		return prefix
	}

	if looksLikeUUID(f) {
		return f
	}

	if t, err := time.Parse(time.RFC3339Nano, f); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", f); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", f); err == nil {
		return t
	}

	if bf, ok := new(big.Float).SetString(f); ok {
		return bf
	}

	return f
}

// looksLikeUUID reports whether f has the canonical
// 8-4-4-4-12 hyphenated hex layout. No pack repo imports a UUID parsing
// library with a live call site (see DESIGN.md), so recognition is this
// manual syntactic check rather than a dependency.
func looksLikeUUID(f string) bool {
	const groups = 5
	lens := [groups]int{8, 4, 4, 4, 12}

	pos := 0
	for i, want := range lens {
		if i > 0 {
			if pos >= len(f) || f[pos] != '-' {
				return false
			}
			pos++
		}
		start := pos
		for pos < len(f) && isHexDigit(f[pos]) {
			pos++
		}
		if pos-start != want {
			return false
		}
	}
	return pos == len(f)
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
