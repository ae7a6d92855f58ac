package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/pgdmp-go/pgdmp/compress"
)

// Reader provides a forward-only, non-restartable pass over a Store's
// contents (spec.md §4.5). Rows and raw bytes are both built on the same
// chunk-at-a-time decompression; Rows additionally tokenizes each
// chunk's rows, relying on Writer.AppendRow always flushing at a row
// boundary so a row never spans two chunks.
type Reader struct {
	file    *os.File
	codec   compress.Codec
	pending []byte // bytes decompressed from a chunk, not yet returned by Read
	err     error  // sticky: once set, every further call returns it
}

func newReader(file *os.File, codec compress.Codec) *Reader {
	return &Reader{file: file, codec: codec}
}

// nextChunk reads and decompresses the next scratch chunk, returning
// io.EOF once the file is exhausted.
func (r *Reader) nextChunk() ([]byte, error) {
	var header [8]byte
	_, err := io.ReadFull(r.file, header[:])
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("store: read chunk header: %w", err)
	}

	rawLen := binary.LittleEndian.Uint32(header[0:4])
	compLen := binary.LittleEndian.Uint32(header[4:8])

	compressed := make([]byte, compLen)
	if _, err := io.ReadFull(r.file, compressed); err != nil {
		return nil, fmt.Errorf("store: read chunk body: %w", err)
	}

	decompressed, err := r.codec.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("store: decompress chunk: %w", err)
	}
	if uint32(len(decompressed)) != rawLen {
		return nil, fmt.Errorf("store: chunk decompressed to %d bytes, header declared %d", len(decompressed), rawLen)
	}

	return decompressed, nil
}

// Rows lazily tokenizes every row across the Store's contents. Iteration
// stops at end-of-block; the `\.` end-of-data sentinel is recognized and
// never yielded, per spec.md §4.5.
func (r *Reader) Rows() iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		for {
			chunk, err := r.nextChunk()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}

			for _, line := range splitLines(chunk) {
				if isEndOfData(line) {
					return
				}
				if !yield(splitRowLine(line), nil) {
					return
				}
			}
		}
	}
}

// Read implements io.Reader over the Store's decompressed, concatenated
// bytes, for a BLOB entry's raw payload.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.pending == nil {
		chunk, err := r.nextChunk()
		if err != nil {
			r.err = err
			if errors.Is(err, io.EOF) {
				return 0, io.EOF
			}
			return 0, err
		}
		r.pending = chunk
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	if len(r.pending) == 0 {
		r.pending = nil
	}
	return n, nil
}

// splitLines splits chunk on '\n', dropping the trailing empty element
// produced by a chunk that (as Writer guarantees) always ends with a
// complete, newline-terminated row.
func splitLines(chunk []byte) [][]byte {
	if len(chunk) == 0 {
		return nil
	}
	lines := bytes.Split(chunk, []byte{rowTerm})
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}
