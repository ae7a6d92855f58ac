// Package compress provides compression and decompression codecs for
// the Data Store's scratch-file representation of a TABLE DATA or BLOB
// payload.
//
// # Overview
//
// While an archive is under construction, every entry's rows or BLOB
// bytes are buffered to a temp file in fixed-size chunks (see the store
// package). This package supplies the algorithm each chunk is
// compressed with before it hits disk — a build-time tuning knob,
// entirely separate from the archive's own on-wire framing (spec.md
// §4.5/§6.1), which only ever uses gzip or none.
//
// Supported algorithms:
//   - None: no compression (fastest, largest scratch files)
//   - Gzip: the same codec the archive's wire format uses, handy when a
//     caller wants one compression library loaded instead of two
//   - Zstd: best compression ratio, moderate speed
//   - S2: balanced compression and speed, klauspost's Snappy-compatible
//     successor
//   - LZ4: fastest decompression, moderate compression ratio
//
// # Architecture
//
// The package defines three small interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Choosing an algorithm
//
// Use NoOp when rows are about to be re-compressed anyway (an archive
// whose compression is gzip gzips its data blocks on the way out, so
// double-compressing the scratch file wastes CPU on large saves with
// little to show for it). Use Gzip for a single-dependency build. Reach for Zstd when the
// scratch file may sit on disk for a while during a large `save` and
// disk space matters more than build time. Reach for LZ4 or S2 when the
// scratch file's compress/decompress pass dominates save latency and a
// smaller ratio is an acceptable trade.
//
//	codec, err := compress.CreateCodec(compress.AlgZstd)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(rowBytes)
//
// # Thread safety
//
// A Codec value is safe to share across goroutines; the Store itself is
// not (see store package), so in practice each Store holds one Codec
// for its own exclusive use.
//
// # Error handling
//
// Compress errors are rare (allocation failure, pathological input
// size). Decompress errors are more common in practice — a truncated or
// corrupted scratch chunk surfaces as a decompression failure rather
// than silently returning garbage. The store package wraps these with
// a "store: decompress chunk" prefix; the chunk's position is not
// included.
package compress
