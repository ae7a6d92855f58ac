package archive

import (
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/pgdmp-go/pgdmp/errs"
	"github.com/pgdmp-go/pgdmp/format"
	"github.com/pgdmp-go/pgdmp/wire"
)

// blockChunkSize bounds each (length, bytes) wire chunk written for a
// data block (spec.md §4.5/§6.1).
const blockChunkSize = 32 * 1024

// chunkWriter re-packetizes a byte stream into the wire's
// (chunk_len varint, chunk bytes) framing, flushing whenever its
// buffer reaches blockChunkSize and writing the terminating
// zero-length chunk on Close.
type chunkWriter struct {
	out     io.Writer
	intSize int
	buf     []byte
}

func newChunkWriter(out io.Writer, intSize int) *chunkWriter {
	return &chunkWriter{out: out, intSize: intSize, buf: make([]byte, 0, blockChunkSize)}
}

func (c *chunkWriter) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		room := blockChunkSize - len(c.buf)
		n := min(room, len(p))
		c.buf = append(c.buf, p[:n]...)
		p = p[n:]
		if len(c.buf) >= blockChunkSize {
			if err := c.flush(); err != nil {
				return 0, err
			}
		}
	}
	return total, nil
}

func (c *chunkWriter) flush() error {
	if len(c.buf) == 0 {
		return nil
	}
	if err := c.writeChunk(c.buf); err != nil {
		return err
	}
	c.buf = c.buf[:0]
	return nil
}

func (c *chunkWriter) writeChunk(data []byte) error {
	w := wire.NewWriter(c.intSize, 0)
	w.WriteInt(int64(len(data)))
	_, err := c.out.Write(w.Bytes())
	w.Release()
	if err != nil {
		return err
	}
	if len(data) > 0 {
		_, err = c.out.Write(data)
	}
	return err
}

// Close flushes any remaining buffered bytes, then writes the
// zero-length terminator chunk.
func (c *chunkWriter) Close() error {
	if err := c.flush(); err != nil {
		return err
	}
	return c.writeChunk(nil)
}

// writeDataBlock writes one entry's framing byte followed by its
// chunked data, reading src to exhaustion. When the archive's
// compression is gzip, the chunks carry one continuous gzip stream
// (spec.md §4.5: "a single gzip stream embedded as the same chunks");
// otherwise each chunk carries src's raw bytes directly.
func writeDataBlock(out io.Writer, a *Archive, src io.Reader) error {
	compressed := a.Compress.Algorithm == format.CompressionAlgGzip

	frame := wire.BlockUncompressed
	if compressed {
		frame = wire.BlockCompressed
	}
	if _, err := out.Write([]byte{byte(frame)}); err != nil {
		return err
	}

	cw := newChunkWriter(out, a.IntSize)

	var dst io.Writer = cw
	var gz *gzip.Writer
	if compressed {
		level := a.Compress.Level
		if level <= 0 {
			level = gzip.DefaultCompression
		}
		var err error
		gz, err = gzip.NewWriterLevel(cw, level)
		if err != nil {
			return err
		}
		dst = gz
	}

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return err
		}
	}
	return cw.Close()
}

// readDataBlock reads one entry's framing byte and its chunked data,
// returning an io.Reader over the fully reassembled bytes (decoding the
// embedded gzip stream transparently when the block is compressed).
func readDataBlock(r *wire.Reader) (io.Reader, error) {
	frameByte, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	frame := wire.BlockFraming(frameByte)
	if !frame.Valid() {
		return nil, errs.WithOffset(r.Offset(), "invalid data block framing byte 0x%02x", frameByte)
	}

	pr, pw := io.Pipe()
	go func() {
		var werr error
		for {
			length, _, err := r.ReadInt()
			if err != nil {
				werr = err
				break
			}
			if length == 0 {
				break
			}
			chunk, err := r.ReadBytes(int(length))
			if err != nil {
				werr = err
				break
			}
			if _, err := pw.Write(chunk); err != nil {
				werr = err
				break
			}
		}
		pw.CloseWithError(werr)
	}()

	if frame == wire.BlockCompressed {
		gzr, err := gzip.NewReader(pr)
		if err != nil {
			return nil, err
		}
		return gzr, nil
	}
	return pr, nil
}
