package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pgdmp-go/pgdmp/errs"
	"github.com/pgdmp-go/pgdmp/wire"
)

// topologicalSort orders toc.Entries so every dependency precedes its
// dependent, breaking ties by section order (Pre-Data < Data <
// Post-Data < None) then by original insertion order (spec.md §4.7).
// Kahn's algorithm; a non-empty remainder after the ready queue drains
// means a cycle, reported as KindCyclicDependencies.
func topologicalSort(toc *TOC) ([]*Entry, error) {
	n := len(toc.Entries)
	originalIndex := make(map[int64]int, n)
	inDegree := make(map[int64]int, n)
	dependents := make(map[int64][]*Entry, n)

	for i, e := range toc.Entries {
		originalIndex[e.DumpID] = i
		inDegree[e.DumpID] = len(e.Dependencies)
	}
	for _, e := range toc.Entries {
		for _, dep := range e.Dependencies {
			dependents[dep] = append(dependents[dep], e)
		}
	}

	var ready []*Entry
	for _, e := range toc.Entries {
		if inDegree[e.DumpID] == 0 {
			ready = append(ready, e)
		}
	}

	sortReady := func() {
		sort.Slice(ready, func(i, j int) bool {
			a, b := ready[i], ready[j]
			if a.Section.Order() != b.Section.Order() {
				return a.Section.Order() < b.Section.Order()
			}
			return originalIndex[a.DumpID] < originalIndex[b.DumpID]
		})
	}

	result := make([]*Entry, 0, n)
	for len(ready) > 0 {
		sortReady()
		e := ready[0]
		ready = ready[1:]
		result = append(result, e)

		for _, dependent := range dependents[e.DumpID] {
			inDegree[dependent.DumpID]--
			if inDegree[dependent.DumpID] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(result) != n {
		return nil, errs.New(errs.KindCyclicDependencies, "dependency graph has a cycle among %d entries", n-len(result))
	}
	return result, nil
}

// Save writes the complete archive to path: header, TOC, and every
// dataful entry's data block, using a single pass when no entry has
// data and a two-pass seek-and-patch save otherwise (spec.md §4.7). The
// write targets a sibling temp file and renames into place only on
// success, so a failure never leaves a partial file at path.
func (a *Archive) Save(path string) (err error) {
	sorted, err := topologicalSort(a.TOC)
	if err != nil {
		return err
	}
	a.TOC.Entries = sorted

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pgdmp-save-*.tmp")
	if err != nil {
		return errs.Wrap(errs.KindIOError, err, "create temp output")
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err = WriteHeader(tmp, a); err != nil {
		return fmt.Errorf("archive: write header: %w", err)
	}

	hasData := false
	for _, e := range sorted {
		if e.HadDumper {
			hasData = true
			break
		}
	}

	if !hasData {
		for _, e := range sorted {
			e.DataState = NoData
			e.Offset = 0
		}
		w := wire.NewWriter(a.IntSize, a.OffSize)
		encErr := EncodeTOC(w, a.Version, a.TOC)
		if encErr == nil {
			_, encErr = tmp.Write(w.Bytes())
		}
		w.Release()
		if encErr != nil {
			err = encErr
			return err
		}
		if err = tmp.Close(); err != nil {
			return errs.Wrap(errs.KindIOError, err, "close temp output")
		}
		if err = os.Rename(tmpPath, path); err != nil {
			return errs.Wrap(errs.KindIOError, err, "rename into place")
		}
		return nil
	}

	if err = a.saveTwoPass(tmp, sorted); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return errs.Wrap(errs.KindIOError, err, "close temp output")
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return errs.Wrap(errs.KindIOError, err, "rename into place")
	}
	return nil
}

// saveTwoPass writes the entry count, then every entry's TOC bytes with
// a placeholder data_state/offset tail, recording each dataful entry's
// tail file position; it then streams every data block in order,
// recording each entry's real offset; finally it patches every
// recorded tail position in place via WriteAt.
func (a *Archive) saveTwoPass(tmp *os.File, sorted []*Entry) error {
	countW := wire.NewWriter(a.IntSize, a.OffSize)
	countW.WriteUint32(uint32(len(sorted)))
	if _, err := tmp.Write(countW.Bytes()); err != nil {
		countW.Release()
		return errs.Wrap(errs.KindIOError, err, "write entry count")
	}
	countW.Release()

	tailPos := make(map[int64]int64, len(sorted))

	for _, e := range sorted {
		e.DataState = NoData
		e.Offset = 0

		prefixW := wire.NewWriter(a.IntSize, a.OffSize)
		prefixErr := encodeEntryPrefix(prefixW, a.Version, e)
		if prefixErr == nil {
			_, prefixErr = tmp.Write(prefixW.Bytes())
		}
		prefixW.Release()
		if prefixErr != nil {
			return prefixErr
		}

		pos, err := tmp.Seek(0, os.SEEK_CUR)
		if err != nil {
			return errs.Wrap(errs.KindIOError, err, "tell TOC position")
		}
		if e.HadDumper {
			tailPos[e.DumpID] = pos
		}

		tailW := wire.NewWriter(a.IntSize, a.OffSize)
		encodeEntryTail(tailW, e)
		_, err = tmp.Write(tailW.Bytes())
		tailW.Release()
		if err != nil {
			return errs.Wrap(errs.KindIOError, err, "write TOC tail placeholder")
		}
	}

	for _, e := range sorted {
		if !e.HadDumper {
			continue
		}
		s, ok := a.stores[e.DumpID]
		if !ok {
			return fmt.Errorf("archive: entry %d marked HadDumper but has no Data Store", e.DumpID)
		}

		offset, err := tmp.Seek(0, os.SEEK_CUR)
		if err != nil {
			return errs.Wrap(errs.KindIOError, err, "tell data block position")
		}

		r, err := s.Reader()
		if err != nil {
			return err
		}
		if err := writeDataBlock(tmp, a, r); err != nil {
			return fmt.Errorf("archive: write data block for entry %d: %w", e.DumpID, err)
		}

		e.Offset = offset
		e.DataState = HasDataOffset
	}

	width := entryTailWidth(a.OffSize)
	for _, e := range sorted {
		if e.DataState != HasDataOffset {
			continue
		}
		pos := tailPos[e.DumpID]

		tailW := wire.NewWriter(a.IntSize, a.OffSize)
		encodeEntryTail(tailW, e)
		buf := tailW.Bytes()
		if len(buf) != width {
			tailW.Release()
			return fmt.Errorf("archive: internal error: tail width mismatch for entry %d (%d != %d)", e.DumpID, len(buf), width)
		}
		_, err := tmp.WriteAt(buf, pos)
		tailW.Release()
		if err != nil {
			return errs.Wrap(errs.KindIOError, err, "patch TOC tail")
		}
	}

	return nil
}
