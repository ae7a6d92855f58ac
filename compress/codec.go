// Package compress provides the pluggable compressor family used by the
// Data Store's scratch (temp-file) representation of a TABLE DATA or
// BLOB payload.
//
// This is deliberately a different concern from the on-wire framing in
// spec.md §4.5/§6.1, which only ever uses gzip (or none): the scratch
// file backing a table's rows while an archive is being built is an
// implementation detail, and this package lets that detail be tuned —
// Zstd or S2 for faster, smaller scratch files on a large `save`, LZ4 for
// lower CPU cost, or NoOp when the caller is about to gzip it again
// anyway and double compression would waste cycles.
package compress

import "fmt"

// Compressor compresses a complete in-memory payload (a scratch chunk of
// row bytes) and returns the compressed result.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is owned by the caller; it is newly allocated,
	//     except from NoOpCompressor, which returns data itself
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor's transformation.
type Decompressor interface {
	// Decompress decompresses data and returns the original result.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression.
type Codec interface {
	Compressor
	Decompressor
}

// Algorithm identifies a scratch-file compression algorithm. This is
// independent of format.CompressionAlgorithm, which enumerates only the
// two values the archive's own wire framing understands (none, gzip).
type Algorithm uint8

const (
	AlgNone Algorithm = iota
	AlgGzip
	AlgZstd
	AlgS2
	AlgLZ4
)

func (a Algorithm) String() string {
	switch a {
	case AlgGzip:
		return "gzip"
	case AlgZstd:
		return "zstd"
	case AlgS2:
		return "s2"
	case AlgLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// CreateCodec is a factory function that creates a Codec for the given
// Algorithm.
func CreateCodec(alg Algorithm) (Codec, error) {
	switch alg {
	case AlgNone:
		return NewNoOpCompressor(), nil
	case AlgGzip:
		return NewGzipCompressor(), nil
	case AlgZstd:
		return NewZstdCompressor(), nil
	case AlgS2:
		return NewS2Compressor(), nil
	case AlgLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("unsupported scratch compression algorithm: %v", alg)
	}
}
