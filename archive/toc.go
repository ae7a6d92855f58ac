package archive

import (
	"github.com/pgdmp-go/pgdmp/errs"
	"github.com/pgdmp-go/pgdmp/format"
	"github.com/pgdmp-go/pgdmp/wire"
)

// depSentinel terminates an entry's dependency list (spec.md §4.4).
const depSentinel = -1

// EncodeTOC writes the entry count followed by every entry's
// version-gated field set (spec.md §4.4/§6.1). Offsets are written
// exactly as stored on e — callers performing a two-pass save write
// zeros here and patch them in place afterward.
func EncodeTOC(w *wire.Writer, version format.ArchiveVersion, toc *TOC) error {
	w.WriteUint32(uint32(len(toc.Entries)))

	for _, e := range toc.Entries {
		if err := encodeEntry(w, version, e); err != nil {
			return err
		}
	}
	return nil
}

func encodeEntry(w *wire.Writer, version format.ArchiveVersion, e *Entry) error {
	if err := encodeEntryPrefix(w, version, e); err != nil {
		return err
	}
	encodeEntryTail(w, e)
	return nil
}

// encodeEntryPrefix writes every entry field up to and including the
// dependency list's terminating sentinel. Split out from encodeEntry so
// Writer.Save can record the file position immediately before the
// data_state/offset tail and patch just those bytes once real offsets
// are known (spec.md §4.4's "TOC region is never rewritten… allowing
// in-place patching").
func encodeEntryPrefix(w *wire.Writer, version format.ArchiveVersion, e *Entry) error {
	w.WriteInt(e.DumpID)

	hadDumper := uint8(0)
	if e.HadDumper {
		hadDumper = 1
	}
	w.WriteUint8(hadDumper)

	if err := w.WriteStringValue(e.TableOID); err != nil {
		return err
	}
	if err := w.WriteStringValue(e.OID); err != nil {
		return err
	}
	if err := w.WriteStringValue(e.Tag); err != nil {
		return err
	}
	if err := w.WriteStringValue(string(e.Desc)); err != nil {
		return err
	}
	w.WriteInt(int64(e.Section))

	if err := w.WriteStringValue(e.Defn); err != nil {
		return err
	}
	if err := w.WriteStringValue(e.DropStmt); err != nil {
		return err
	}
	if err := w.WriteStringValue(e.CopyStmt); err != nil {
		return err
	}
	if err := w.WriteStringValue(e.Namespace); err != nil {
		return err
	}
	if err := w.WriteStringValue(e.Tablespace); err != nil {
		return err
	}

	if version.HasTableAM() {
		if err := w.WriteStringValue(e.TableAM); err != nil {
			return err
		}
	}
	if version.HasRelKind() {
		if err := w.WriteStringValue(e.RelKind); err != nil {
			return err
		}
	}

	if err := w.WriteStringValue(e.Owner); err != nil {
		return err
	}

	w.WriteUint8(0) // legacy "with oids" byte, always false

	for _, dep := range e.Dependencies {
		w.WriteInt(dep)
	}
	w.WriteInt(depSentinel)

	return nil
}

// encodeEntryTail writes data_state and offset, the fixed-width fields
// a two-pass save patches in place once an entry's data block has been
// written and its real offset is known.
func encodeEntryTail(w *wire.Writer, e *Entry) {
	w.WriteUint8(uint8(e.DataState))
	w.WriteOffset(e.Offset)
}

// entryTailWidth is the fixed byte width of encodeEntryTail's output:
// one data_state byte plus one offset varint (sign byte + offSize
// magnitude bytes). Constant across every entry for a given archive,
// since varint fields always occupy their configured width regardless
// of value.
func entryTailWidth(offSize int) int {
	return 1 + (1 + offSize)
}

// DecodeTOC reads an entry count followed by that many entries, in the
// field order EncodeTOC writes them (spec.md §4.4).
func DecodeTOC(r *wire.Reader, version format.ArchiveVersion) (*TOC, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	toc := NewTOC()
	for i := uint32(0); i < count; i++ {
		e, err := decodeEntry(r, version)
		if err != nil {
			return nil, err
		}
		if _, exists := toc.byID[e.DumpID]; exists {
			return nil, errs.New(errs.KindInvalidID, "duplicate dump_id %d in TOC", e.DumpID)
		}
		toc.byID[e.DumpID] = e
		toc.Entries = append(toc.Entries, e)
		key := lookupKey(e.Desc, e.Namespace, e.Tag)
		toc.byKey[key] = append(toc.byKey[key], e)
	}

	for _, e := range toc.Entries {
		for _, dep := range e.Dependencies {
			if _, ok := toc.byID[dep]; !ok {
				return nil, errs.New(errs.KindMissingDependency, "dump_id %d depends on unknown dump_id %d", e.DumpID, dep)
			}
		}
	}

	return toc, nil
}

func decodeEntry(r *wire.Reader, version format.ArchiveVersion) (*Entry, error) {
	e := &Entry{}

	dumpID, _, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	e.DumpID = dumpID

	hadDumper, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	e.HadDumper = hadDumper != 0

	if e.TableOID, err = r.ReadStringValue(); err != nil {
		return nil, err
	}
	if e.OID, err = r.ReadStringValue(); err != nil {
		return nil, err
	}
	if e.Tag, err = r.ReadStringValue(); err != nil {
		return nil, err
	}

	desc, err := r.ReadStringValue()
	if err != nil {
		return nil, err
	}
	e.Desc = format.Descriptor(desc)

	rawSection, _, err := r.ReadInt()
	if err != nil {
		return nil, err
	}

	section, ok := format.SectionOf(e.Desc)
	if !ok {
		return nil, errs.New(errs.KindUnknownDescriptor, "unknown descriptor %q at dump_id %d", e.Desc, e.DumpID)
	}
	e.Section = section
	_ = rawSection // the on-disk section is read and discarded without being checked; SectionOf(desc) is canonical

	if e.Defn, err = r.ReadStringValue(); err != nil {
		return nil, err
	}
	if e.DropStmt, err = r.ReadStringValue(); err != nil {
		return nil, err
	}
	if e.CopyStmt, err = r.ReadStringValue(); err != nil {
		return nil, err
	}
	if e.Namespace, err = r.ReadStringValue(); err != nil {
		return nil, err
	}
	if e.Tablespace, err = r.ReadStringValue(); err != nil {
		return nil, err
	}

	if version.HasTableAM() {
		if e.TableAM, err = r.ReadStringValue(); err != nil {
			return nil, err
		}
	}
	if version.HasRelKind() {
		if e.RelKind, err = r.ReadStringValue(); err != nil {
			return nil, err
		}
	}

	if e.Owner, err = r.ReadStringValue(); err != nil {
		return nil, err
	}

	if _, err := r.ReadUint8(); err != nil { // legacy "with oids" byte, discarded
		return nil, err
	}

	for {
		dep, isNull, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		if isNull || dep == depSentinel {
			break
		}
		e.Dependencies = append(e.Dependencies, dep)
	}

	dataState, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	e.DataState = DataState(dataState)

	offset, _, err := r.ReadOffset()
	if err != nil {
		return nil, err
	}
	e.Offset = offset

	return e, nil
}
