// Package convert turns a Data Store row's raw text fields into Go
// native values. The wire format and the Data Store both only ever deal
// in bytes and strings (spec.md §4.5); a Converter is the pluggable seam
// that decides what a consumer actually sees when iterating TableData.
package convert

// Converter turns one row's raw fields into a row of Go values. The
// input slice's length and order always matches the row exactly as
// decoded from the Data Store: nullToken fields have already been
// reduced to Go nil by the time they reach here only if the specific
// Converter chooses to do so — Converter owns that decision, not the
// caller.
type Converter interface {
	// Convert maps fields (one raw string per column, in column order)
	// to a row of Go values. An error is yielded to the consumer in
	// place of that row; iteration continues with the next row if the
	// consumer keeps ranging.
	Convert(fields []string) ([]any, error)
}

// nullToken is the text sentinel a Data Store row uses for a null field
// (spec.md §4.5). It is duplicated here (rather than imported from
// store) so convert has no dependency on the Data Store's internals —
// only the wire contract both packages independently honor.
const nullToken = `\N`

// Default returns fields unconverted: each raw string becomes a single
// `any` holding that string, with nullToken fields becoming an untyped
// nil. This is the conservative converter — it never misclassifies a
// string as a richer type, at the cost of leaving all further parsing
// to the caller.
type Default struct{}

var _ Converter = Default{}

// NewDefault creates a Default converter.
func NewDefault() Default { return Default{} }

func (Default) Convert(fields []string) ([]any, error) {
	out := make([]any, len(fields))
	for i, f := range fields {
		if f == nullToken {
			out[i] = nil
			continue
		}
		out[i] = f
	}
	return out, nil
}

// NoOp returns fields completely unconverted, including the null
// sentinel itself: every element of the result is the raw string,
// verbatim. Useful for a caller re-serializing rows (e.g. re-emitting
// a COPY stream) that must preserve nullToken exactly as stored.
type NoOp struct{}

var _ Converter = NoOp{}

// NewNoOp creates a NoOp converter.
func NewNoOp() NoOp { return NoOp{} }

func (NoOp) Convert(fields []string) ([]any, error) {
	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = f
	}
	return out, nil
}
