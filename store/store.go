// Package store implements the Data Store: the per-entry, gzip-backed
// temporary file holding a TABLE DATA entry's rows or a BLOB entry's raw
// bytes (spec.md §4.5).
//
// A Store is append-only while an archive is under construction and
// sequentially readable afterward, during Archive.Save (which re-frames
// the decompressed bytes into the wire's chunk framing, as one
// continuous gzip stream when the archive's compression is gzip). The temp
// file's own internal compression is a scratch-level concern, distinct
// from the archive's on-wire framing — see compress.Codec.
package store

import (
	"fmt"
	"os"

	"github.com/pgdmp-go/pgdmp/compress"
)

// DefaultScratchChunkSize is the buffered-bytes threshold at which a
// Writer compresses and flushes a chunk to its temp file. Chosen to
// match the teacher's small-buffer growth threshold so row buffering and
// compression overhead stay proportionate for typical TOAST-sized rows.
const DefaultScratchChunkSize = 16 * 1024

// Store owns one entry's backing temp file for its whole lifetime: from
// the first Append during construction, through however many Reader
// passes a consumer or Archive.Save takes, until Close releases the
// file. Store is not safe for concurrent use; see spec.md §5.
type Store struct {
	file  *os.File
	codec compress.Codec
	alg   compress.Algorithm
}

// New creates a Store backed by a new temp file in dir (empty for the
// OS default), compressing its scratch chunks with alg.
func New(dir string, alg compress.Algorithm) (*Store, error) {
	f, err := os.CreateTemp(dir, "pgdmp-*.block")
	if err != nil {
		return nil, fmt.Errorf("store: create temp file: %w", err)
	}

	codec, err := compress.CreateCodec(alg)
	if err != nil {
		os.Remove(f.Name())
		f.Close()
		return nil, err
	}

	return &Store{file: f, codec: codec, alg: alg}, nil
}

// Path returns the backing temp file's path, useful for diagnostics.
func (s *Store) Path() string {
	if s.file == nil {
		return ""
	}
	return s.file.Name()
}

// Close releases the backing temp file. It is safe to call multiple
// times. Every code path that creates a Store — including construction
// failures elsewhere in the archive — must eventually reach Close so no
// temp file outlives the archive (spec.md §5).
func (s *Store) Close() error {
	if s.file == nil {
		return nil
	}
	name := s.file.Name()
	err := s.file.Close()
	if rmErr := os.Remove(name); rmErr != nil && err == nil {
		err = rmErr
	}
	s.file = nil
	return err
}

// Writer opens an append-only Writer over the Store. Only one Writer or
// Reader may be active on a Store at a time.
func (s *Store) Writer() (*Writer, error) {
	if _, err := s.file.Seek(0, os.SEEK_SET); err != nil {
		return nil, fmt.Errorf("store: seek writer start: %w", err)
	}
	return newWriter(s.file, s.codec), nil
}

// Reader opens a fresh, forward-only Reader over the Store's complete
// contents, reopening the scratch file at its start. A second pass
// requires a new Reader — the Store's iteration is not restartable
// mid-stream (spec.md §4.5).
func (s *Store) Reader() (*Reader, error) {
	if _, err := s.file.Seek(0, os.SEEK_SET); err != nil {
		return nil, fmt.Errorf("store: seek reader start: %w", err)
	}
	return newReader(s.file, s.codec), nil
}
