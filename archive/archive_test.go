package archive

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pgdmp-go/pgdmp/format"
	"github.com/stretchr/testify/require"
)

func TestArchiveSaveOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.pgdmp")

	a := New("widgets_db", WithScratchDir(dir))
	defer a.Close()

	schema, err := a.TOC.AddEntry(format.DescSchema, "public", WithOwner("alice"))
	require.NoError(t, err)

	table, err := a.TOC.AddEntry(format.DescTable, "widgets",
		WithNamespace("public"),
		WithOwner("alice"),
		WithDefinition("CREATE TABLE public.widgets (id integer, name text);"),
		WithDependencies(schema.DumpID),
	)
	require.NoError(t, err)

	dataEntry, err := a.TOC.AddEntry(format.DescTableData, "widgets",
		WithNamespace("public"),
		WithCopyStatement("COPY public.widgets (id, name) FROM stdin;"),
		WithDependencies(table.DumpID),
	)
	require.NoError(t, err)

	rw, err := a.TableDataWriter(dataEntry, []string{"id", "name"})
	require.NoError(t, err)
	require.NoError(t, rw.Append(1, "foo"))
	require.NoError(t, rw.Append(2, nil))
	require.NoError(t, rw.Close())

	blobEntry, err := a.AddBlob("16420", []byte("binary payload"))
	require.NoError(t, err)
	require.NotNil(t, blobEntry)

	require.NoError(t, a.Save(path))

	loaded, err := Open(path)
	require.NoError(t, err)
	defer loaded.Close()

	require.Equal(t, "widgets_db", loaded.DBName)
	require.Equal(t, format.DefaultVersion, loaded.Version)
	require.Len(t, loaded.TOC.Entries, 4)

	seq, err := loaded.TableData("public", "widgets")
	require.NoError(t, err)

	var rows [][]any
	for values, rowErr := range seq {
		require.NoError(t, rowErr)
		rows = append(rows, values)
	}
	require.Len(t, rows, 2)
	require.Equal(t, []any{int64(1), "foo"}, rows[0])
	require.Equal(t, int64(2), rows[1][0])
	require.Nil(t, rows[1][1])

	var blobs []BlobRecord
	for rec, blobErr := range loaded.Blobs() {
		require.NoError(t, blobErr)
		data, err := io.ReadAll(rec.Data)
		require.NoError(t, err)
		blobs = append(blobs, BlobRecord{OID: rec.OID})
		require.Equal(t, "binary payload", string(data))
	}
	require.Len(t, blobs, 1)
	require.Equal(t, "16420", blobs[0].OID)
}

func TestArchiveSaveOpenNoData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema_only.pgdmp")

	a := New("empty_db", WithScratchDir(dir))
	defer a.Close()

	_, err := a.TOC.AddEntry(format.DescSchema, "public")
	require.NoError(t, err)

	require.NoError(t, a.Save(path))

	loaded, err := Open(path)
	require.NoError(t, err)
	defer loaded.Close()

	require.Len(t, loaded.TOC.Entries, 1)
	require.Equal(t, NoData, loaded.TOC.Entries[0].DataState)
}

func TestOpenRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-an-archive.pgdmp")
	require.NoError(t, os.WriteFile(path, []byte("NOTREAL garbage bytes"), 0o600))

	_, err := Open(path)
	require.Error(t, err)
}

func TestArchiveVersionGatingAcrossSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v112.pgdmp")

	a := New("legacy_db", WithScratchDir(dir), WithFormatVersion(format.V1_12))
	defer a.Close()

	_, err := a.TOC.AddEntry(format.DescTable, "widgets",
		WithNamespace("public"),
		WithTableAccessMethod("heap"),
		WithRelKind("r"),
	)
	require.NoError(t, err)

	require.NoError(t, a.Save(path))

	loaded, err := Open(path)
	require.NoError(t, err)
	defer loaded.Close()

	require.Equal(t, format.V1_12, loaded.Version)
	require.Empty(t, loaded.TOC.Entries[0].TableAM)
	require.Empty(t, loaded.TOC.Entries[0].RelKind)
}
