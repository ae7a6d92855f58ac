package archive

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/pgdmp-go/pgdmp/convert"
	"github.com/pgdmp-go/pgdmp/errs"
	"github.com/pgdmp-go/pgdmp/format"
	"github.com/pgdmp-go/pgdmp/wire"
)

// Open reads and validates path's header and TOC, returning an Archive
// ready for TableData/Blobs iteration. The underlying file is kept open
// for the Archive's lifetime (lazy data blocks are read directly from
// it at the recorded offsets) and released by Close.
func Open(path string, opts ...Option) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindIOError, err, "open %s", path)
	}

	a, r, err := ReadHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	toc, err := DecodeTOC(r, a.Version)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.TOC = toc
	a.converter = convert.NewSmart()
	a.file = f

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// TableData returns a lazy, forward-only sequence of a TABLE DATA
// entry's rows, converted via the Archive's configured Converter
// (spec.md §4.5/§4.6). namespace/tag identify the owning TABLE entry,
// matching spec.md §6.2's table_data(namespace, tag) signature.
func (a *Archive) TableData(namespace, tag string) (iter.Seq2[[]any, error], error) {
	tableEntry, err := a.TOC.LookupEntry(format.DescTable, namespace, tag)
	if err != nil {
		return nil, err
	}

	dataEntry, err := a.TOC.LookupEntry(format.DescTableData, tableEntry.Namespace, tableEntry.Tag)
	if err != nil {
		return nil, err
	}

	src, err := a.openDataBlock(dataEntry)
	if err != nil {
		return nil, err
	}

	return func(yield func([]any, error) bool) {
		for fields, rowErr := range rows(src) {
			if rowErr != nil {
				yield(nil, rowErr)
				return
			}
			values, convErr := a.converter.Convert(fields)
			if convErr != nil {
				if !yield(nil, errs.Wrap(errs.KindConverterError, convErr, "convert row")) {
					return
				}
				continue
			}
			if !yield(values, nil) {
				return
			}
		}
	}, nil
}

// BlobRecord is one BLOB entry's identity and its lazily-read payload.
type BlobRecord struct {
	OID  string
	Data io.Reader
}

// Blobs returns a lazy sequence of every BLOB entry's (oid, data
// reader) pair, in TOC order (spec.md §6.2's blobs()).
func (a *Archive) Blobs() iter.Seq2[BlobRecord, error] {
	return func(yield func(BlobRecord, error) bool) {
		for _, e := range a.TOC.Entries {
			if e.Desc != format.DescBlob && e.Desc != format.DescBlobs {
				continue
			}
			if e.DataState != HasDataOffset {
				continue
			}
			src, err := a.openDataBlock(e)
			if err != nil {
				if !yield(BlobRecord{}, err) {
					return
				}
				continue
			}
			if !yield(BlobRecord{OID: e.OID, Data: src}, nil) {
				return
			}
		}
	}
}

// openDataBlock seeks the archive's file to e's recorded offset and
// returns a reader over its reassembled bytes.
func (a *Archive) openDataBlock(e *Entry) (io.Reader, error) {
	if e.DataState != HasDataOffset {
		return nil, errs.New(errs.KindEntityNotFound, "entry %d has no data block", e.DumpID)
	}
	if a.file == nil {
		return nil, errs.New(errs.KindIOError, "archive has no open file (was it loaded via Open?)")
	}

	section := io.NewSectionReader(a.file, e.Offset, 1<<62)
	r := wire.NewReader(section, a.IntSize, a.OffSize)
	return readDataBlock(r)
}

// fieldSep and endOfData mirror the Data Store's COPY-text row framing
// (store package's row.go; rows here are split on newlines by
// bufio.Scanner) — duplicated here because this
// reader works over the archive's reassembled wire bytes directly
// rather than the Data Store's scratch representation, but both sides
// of the wire agree on this text contract (spec.md §4.5).
const (
	fieldSep  = '\t'
	endOfData = `\.`
)

// rows tokenizes src's COPY-style text stream into raw string fields
// per row, stopping at the `\.` end-of-data sentinel (never yielded) or
// at end of input.
func rows(src io.Reader) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		scanner := bufio.NewScanner(src)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if line == endOfData {
				return
			}
			fields := strings.Split(line, string(fieldSep))
			if !yield(fields, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, errs.Wrap(errs.KindIOError, err, "read row"))
		}
	}
}
