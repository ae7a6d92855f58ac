package wire

// BlockFraming distinguishes compressed from uncompressed data-block
// payloads, per spec.md §4.5/§6.1: a single byte precedes every data
// block and selects between the two chunk framings.
type BlockFraming uint8

const (
	BlockUncompressed BlockFraming = 0x01
	BlockCompressed   BlockFraming = 0x02
)

func (f BlockFraming) Valid() bool {
	return f == BlockUncompressed || f == BlockCompressed
}
