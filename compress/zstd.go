package compress

// ZstdCompressor provides Zstandard compression for the Data Store's
// scratch representation.
//
// Zstd trades compression speed for ratio, making it a good choice for
// the scratch files backing a large `save` with many TABLE DATA entries,
// where scratch files are written once and read once but may sit on
// disk for a while during construction.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
