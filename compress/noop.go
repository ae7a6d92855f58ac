package compress

// NoOpCompressor bypasses compression entirely, copying data through
// unchanged. Useful when the scratch representation is about to be
// re-framed into the archive's own gzip wire block anyway, and paying
// for compression twice would be wasted work.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data unchanged.
//
// Note: the returned slice shares the input's underlying memory; callers
// must not mutate the input afterward if they intend to use the result.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
