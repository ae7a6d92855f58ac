package store

import "strings"

const (
	nullToken  = `\N`
	fieldSep   = '\t'
	rowTerm    = '\n'
	endOfData  = `\.`
)

// encodeRow renders fields as one COPY-style text row: tab-joined,
// newline-terminated, with nullToken marking a null field. Every
// element is written verbatim: a null field must already be nullToken,
// and "" is an empty value — this is the minimal contract spec.md §4.5
// describes; it does not implement pg_dump's full backslash-escaping of
// embedded tabs/newlines, which is out of scope (spec.md §1: "row-to-
// string transformation policies beyond a minimal contract").
func encodeRow(fields []string) []byte {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(fieldSep)
		}
		b.WriteString(f)
	}
	b.WriteByte(rowTerm)
	return []byte(b.String())
}

// splitRowLine splits one row's raw bytes (trailing newline already
// stripped by the caller) on the field separator, returning the raw
// string fields. A field equal to nullToken is NOT resolved to a Go nil
// here — that is the Converter's job (spec.md §4.6); splitRowLine only
// tokenizes.
func splitRowLine(line []byte) []string {
	if len(line) == 0 {
		return []string{""}
	}
	return strings.Split(string(line), string(fieldSep))
}

// isEndOfData reports whether line (trailing newline stripped) is the
// `\.` end-of-data sentinel, which callers must recognize and never
// yield as a row (spec.md §4.5).
func isEndOfData(line []byte) bool {
	return string(line) == endOfData
}
