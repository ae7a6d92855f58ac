package pgdmp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pgdmp-go/pgdmp/errs"
	"github.com/pgdmp-go/pgdmp/format"
	"github.com/stretchr/testify/require"
)

func TestBuildAndReloadDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.dump")

	a := New("example", WithScratchDir(dir))
	defer a.Close()

	schema, err := a.TOC.AddEntry(format.DescSchema, "test")
	require.NoError(t, err)

	ext, err := a.TOC.AddEntry(format.DescExtension, "uuid-ossp")
	require.NoError(t, err)

	_, err = a.TOC.AddEntry(format.DescComment, "uuid-ossp", WithDependencies(ext.DumpID))
	require.NoError(t, err)

	typ, err := a.TOC.AddEntry(format.DescType, "address_type", WithNamespace("test"))
	require.NoError(t, err)

	addresses, err := a.TOC.AddEntry(format.DescTable, "addresses",
		WithNamespace("test"),
		WithDependencies(schema.DumpID, typ.DumpID, ext.DumpID),
	)
	require.NoError(t, err)

	example, err := a.TOC.AddEntry(format.DescTable, "example", WithNamespace("public"))
	require.NoError(t, err)

	exampleData, err := a.TOC.AddEntry(format.DescTableData, "example",
		WithNamespace("public"),
		WithDependencies(example.DumpID),
	)
	require.NoError(t, err)

	rw, err := a.TableDataWriter(exampleData, nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, rw.Append(i, "row"))
	}
	require.NoError(t, rw.Close())

	require.NoError(t, a.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	defer loaded.Close()

	// 6 schema-level entries plus the TABLE DATA entry for `example`.
	require.Len(t, loaded.TOC.Entries, 7)

	reloadedAddresses, ok := loaded.TOC.ByID(addresses.DumpID)
	require.True(t, ok)
	require.ElementsMatch(t, []int64{schema.DumpID, typ.DumpID, ext.DumpID}, reloadedAddresses.Dependencies)

	seq, err := loaded.TableData("public", "example")
	require.NoError(t, err)

	count := 0
	for values, rowErr := range seq {
		require.NoError(t, rowErr)
		require.Equal(t, "row", values[1])
		count++
	}
	require.Equal(t, 5, count)
}

func TestAddEntryDuplicateDumpIDRejected(t *testing.T) {
	a := New("example")
	defer a.Close()

	_, err := a.TOC.AddEntry(format.DescSchema, "s1", WithDumpID(7))
	require.NoError(t, err)

	_, err = a.TOC.AddEntry(format.DescTable, "t1", WithDumpID(7))
	require.ErrorIs(t, err, errs.ErrInvalidID)
}

func TestCyclicDependencyRejectedAtSave(t *testing.T) {
	dir := t.TempDir()
	a := New("example", WithScratchDir(dir))
	defer a.Close()

	x, err := a.TOC.AddEntry(format.DescTable, "x")
	require.NoError(t, err)
	y, err := a.TOC.AddEntry(format.DescTable, "y", WithDependencies(x.DumpID))
	require.NoError(t, err)
	x.Dependencies = append(x.Dependencies, y.DumpID) // manufacture the cycle

	err = a.Save(filepath.Join(dir, "cyclic.dump"))
	require.ErrorIs(t, err, errs.ErrCyclicDependencies)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.dump")
	require.NoError(t, os.WriteFile(path, []byte("NOTPGDMPgarbage"), 0o600))

	_, err := Load(path)
	require.ErrorIs(t, err, errs.ErrNotAnArchive)
}
