package store

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/pgdmp-go/pgdmp/compress"
	"github.com/pgdmp-go/pgdmp/internal/pool"
)

// Writer appends rows (TABLE DATA) or raw bytes (BLOB) to a Store's
// scratch file, buffering up to DefaultScratchChunkSize bytes before
// compressing and flushing a chunk. Writer is append-only: there is no
// seek-back or rewrite once bytes are appended, matching spec.md §4.5's
// "append-only" Data Store writer contract.
type Writer struct {
	file  *os.File
	codec compress.Codec
	buf   *pool.ByteBuffer
	rows  int
}

func newWriter(file *os.File, codec compress.Codec) *Writer {
	return &Writer{file: file, codec: codec, buf: pool.GetBlobBuffer()}
}

// AppendRow serializes fields as one COPY-style text row — tab-joined,
// "\N" for a null field — and buffers it, newline-terminated.
func (w *Writer) AppendRow(fields []string) error {
	w.buf.MustWrite(encodeRow(fields))
	w.rows++
	if w.buf.Len() >= DefaultScratchChunkSize {
		return w.flush()
	}
	return nil
}

// AppendBytes buffers raw bytes (a BLOB's payload) with no row framing.
func (w *Writer) AppendBytes(data []byte) error {
	w.buf.MustWrite(data)
	if w.buf.Len() >= DefaultScratchChunkSize {
		return w.flush()
	}
	return nil
}

// Rows returns the number of rows appended via AppendRow so far.
func (w *Writer) Rows() int { return w.rows }

func (w *Writer) flush() error {
	if w.buf.Len() == 0 {
		return nil
	}

	compressed, err := w.codec.Compress(w.buf.Bytes())
	if err != nil {
		return fmt.Errorf("store: compress scratch chunk: %w", err)
	}

	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(w.buf.Len()))
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(compressed)))

	if _, err := w.file.Write(header[:]); err != nil {
		return fmt.Errorf("store: write chunk header: %w", err)
	}
	if _, err := w.file.Write(compressed); err != nil {
		return fmt.Errorf("store: write chunk body: %w", err)
	}

	w.buf.Reset()
	return nil
}

// Close flushes any buffered bytes and releases the Writer's in-memory
// buffer. It does not close the Store's backing file — the Store owns
// that for the rest of its lifetime.
func (w *Writer) Close() error {
	err := w.flush()
	if w.buf != nil {
		pool.PutBlobBuffer(w.buf)
		w.buf = nil
	}
	return err
}
