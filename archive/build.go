package archive

import (
	"fmt"

	"github.com/pgdmp-go/pgdmp/format"
	"github.com/pgdmp-go/pgdmp/store"
)

// RowWriter appends rows to a TABLE DATA entry's Data Store, rendering
// each value to its COPY-text representation before buffering it
// (spec.md §6.2's table_data_writer).
type RowWriter struct {
	entry   *Entry
	columns []string
	inner   *store.Writer
}

// TableDataWriter opens a scoped row writer for e, marking e as
// carrying data. e must not already have a Data Store (each entry gets
// exactly one).
func (a *Archive) TableDataWriter(e *Entry, columnNames []string) (*RowWriter, error) {
	if _, exists := a.stores[e.DumpID]; exists {
		return nil, fmt.Errorf("archive: entry %d already has a Data Store", e.DumpID)
	}

	s, err := a.storeFor(e.DumpID)
	if err != nil {
		return nil, err
	}
	w, err := s.Writer()
	if err != nil {
		return nil, err
	}

	e.HadDumper = true
	return &RowWriter{entry: e, columns: columnNames, inner: w}, nil
}

// Append renders values as one COPY-text row (nil becomes the `\N`
// null token, everything else via fmt.Sprint) and buffers it.
func (w *RowWriter) Append(values ...any) error {
	if len(w.columns) > 0 && len(values) != len(w.columns) {
		return fmt.Errorf("archive: row has %d values, entry declares %d columns", len(values), len(w.columns))
	}

	fields := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			fields[i] = `\N`
			continue
		}
		fields[i] = fmt.Sprint(v)
	}
	return w.inner.AppendRow(fields)
}

// Close flushes any buffered rows. It must be called before Archive.Save.
func (w *RowWriter) Close() error { return w.inner.Close() }

// AddBlob creates a BLOB entry for oid and streams data's bytes into
// its Data Store (spec.md §6.2's add_blob).
func (a *Archive) AddBlob(oid string, data []byte) (*Entry, error) {
	e, err := a.TOC.AddEntry(format.DescBlob, oid, WithOID(oid))
	if err != nil {
		return nil, err
	}

	s, err := a.storeFor(e.DumpID)
	if err != nil {
		return nil, err
	}
	w, err := s.Writer()
	if err != nil {
		return nil, err
	}
	if err := w.AppendBytes(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	e.HadDumper = true
	return e, nil
}
