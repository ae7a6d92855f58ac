package archive

import (
	"fmt"
	"io"
	"time"

	"github.com/pgdmp-go/pgdmp/errs"
	"github.com/pgdmp-go/pgdmp/format"
	"github.com/pgdmp-go/pgdmp/wire"
)

// formatByte is the single supported archive `format` field value:
// custom (spec.md §4.7 step 3).
const formatByte = 0x01

// WriteHeader writes the complete header (spec.md §6.1): magic,
// version, widths, format, compression negotiation, timestamp, and the
// dbname/server_version/dump_version_string strings. out receives the
// raw magic/version/width bytes directly (they precede any varint, so
// have no configured width yet); everything after is written through a
// freshly configured wire.Writer.
func WriteHeader(out io.Writer, a *Archive) error {
	if _, err := out.Write(format.Magic[:]); err != nil {
		return fmt.Errorf("archive: write magic: %w", err)
	}
	ver := a.Version.Bytes()
	if _, err := out.Write(ver[:]); err != nil {
		return fmt.Errorf("archive: write version: %w", err)
	}
	if _, err := out.Write([]byte{byte(a.IntSize), byte(a.OffSize), formatByte}); err != nil {
		return fmt.Errorf("archive: write widths: %w", err)
	}

	w := wire.NewWriter(a.IntSize, a.OffSize)
	defer w.Release()

	if a.Version.HasHeaderCompression() {
		w.WriteUint8(uint8(a.Compress.Algorithm))
		w.WriteInt(int64(a.Compress.Level))
	} else {
		level := a.Compress.Level
		if a.Compress.Algorithm == format.CompressionAlgNone {
			level = 0
		}
		w.WriteInt(int64(level))
	}

	writeTimestamp(w, a.Timestamp, a.Version)

	if err := w.WriteStringValue(a.DBName); err != nil {
		return err
	}
	if err := w.WriteStringValue(a.ServerVer); err != nil {
		return err
	}
	if err := w.WriteStringValue(a.DumpVerStr); err != nil {
		return err
	}

	if a.Version.HasEncodingBlock() {
		if err := w.WriteStringValue(a.Encoding); err != nil {
			return err
		}
		stdStrings := uint8(0)
		if a.StdStrings {
			stdStrings = 1
		}
		w.WriteUint8(stdStrings)
	}

	if _, err := out.Write(w.Bytes()); err != nil {
		return fmt.Errorf("archive: write header body: %w", err)
	}
	return nil
}

// writeTimestamp writes the 7-varint timestamp (sec, min, hour, mday,
// mon, year, isdst). mon is 0-based; year is full (not offset from
// 1900) for every supported version — see DESIGN.md for why the
// pre-1.15 "years since 1900" convention mentioned in spec.md §9's Open
// Question is not reproduced here.
func writeTimestamp(w *wire.Writer, t time.Time, _ format.ArchiveVersion) {
	t = t.UTC()
	w.WriteInt(int64(t.Second()))
	w.WriteInt(int64(t.Minute()))
	w.WriteInt(int64(t.Hour()))
	w.WriteInt(int64(t.Day()))
	w.WriteInt(int64(t.Month()) - 1)
	w.WriteInt(int64(t.Year()))
	w.WriteInt(0) // isdst: this library always emits UTC-normalized timestamps
}

// ReadHeader reads and validates the header, returning a partially
// populated Archive (every header field set, TOC still nil) and the
// wire.Reader positioned immediately before the TOC, ready for
// DecodeTOC.
func ReadHeader(in io.Reader) (*Archive, *wire.Reader, error) {
	var magic [5]byte
	if _, err := io.ReadFull(in, magic[:]); err != nil {
		return nil, nil, errs.Wrap(errs.KindIOError, err, "read magic")
	}
	if magic != format.Magic {
		return nil, nil, errs.New(errs.KindNotAnArchive, "bad magic %q", magic[:])
	}

	var verBytes [3]byte
	if _, err := io.ReadFull(in, verBytes[:]); err != nil {
		return nil, nil, errs.Wrap(errs.KindIOError, err, "read version")
	}
	version, ok := format.ParseArchiveVersion(verBytes)
	if !ok {
		return nil, nil, errs.New(errs.KindUnsupportedVersion, "unsupported archive version %s", version)
	}

	var widths [3]byte
	if _, err := io.ReadFull(in, widths[:]); err != nil {
		return nil, nil, errs.Wrap(errs.KindIOError, err, "read widths")
	}
	intSize, offSize, fmtByte := int(widths[0]), int(widths[1]), widths[2]
	if fmtByte != formatByte {
		return nil, nil, errs.New(errs.KindFormatError, "unsupported archive format byte 0x%02x", fmtByte)
	}

	a := &Archive{Version: version, IntSize: intSize, OffSize: offSize}
	r := wire.NewReader(in, intSize, offSize)

	if version.HasHeaderCompression() {
		alg, err := r.ReadUint8()
		if err != nil {
			return nil, nil, err
		}
		level, _, err := r.ReadInt()
		if err != nil {
			return nil, nil, err
		}
		a.Compress = CompressionFormat{Algorithm: format.CompressionAlgorithm(alg), Level: int(level)}
	} else {
		level, _, err := r.ReadInt()
		if err != nil {
			return nil, nil, err
		}
		alg := format.CompressionAlgNone
		if level > 0 {
			alg = format.CompressionAlgGzip
		}
		a.Compress = CompressionFormat{Algorithm: alg, Level: int(level)}
	}

	ts, err := readTimestamp(r)
	if err != nil {
		return nil, nil, err
	}
	a.Timestamp = ts

	if a.DBName, err = r.ReadStringValue(); err != nil {
		return nil, nil, err
	}
	if a.ServerVer, err = r.ReadStringValue(); err != nil {
		return nil, nil, err
	}
	if a.DumpVerStr, err = r.ReadStringValue(); err != nil {
		return nil, nil, err
	}

	if version.HasEncodingBlock() {
		if a.Encoding, err = r.ReadStringValue(); err != nil {
			return nil, nil, err
		}
		stdStrings, err := r.ReadUint8()
		if err != nil {
			return nil, nil, err
		}
		a.StdStrings = stdStrings != 0
	}

	return a, r, nil
}

func readTimestamp(r *wire.Reader) (time.Time, error) {
	fields := make([]int64, 7)
	for i := range fields {
		v, _, err := r.ReadInt()
		if err != nil {
			return time.Time{}, err
		}
		fields[i] = v
	}
	sec, min, hour, mday, mon, year := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]
	return time.Date(int(year), time.Month(mon+1), int(mday), int(hour), int(min), int(sec), 0, time.UTC), nil
}
