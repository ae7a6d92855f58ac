package archive

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pgdmp-go/pgdmp/format"
	"github.com/stretchr/testify/require"
)

// TestDataBlockMultiChunkRoundTrip exercises chunkWriter/readDataBlock's
// framing across more than one blockChunkSize-sized chunk, both for a
// BLOB payload and for TABLE DATA rows, through a full save/reload cycle.
func TestDataBlockMultiChunkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.pgdmp")

	a := New("bigdb", WithScratchDir(dir))
	defer a.Close()

	big := bytes.Repeat([]byte("0123456789abcdef"), blockChunkSize/16*3+1000) // > 3*blockChunkSize
	require.Greater(t, len(big), 3*blockChunkSize)

	blobEntry, err := a.AddBlob("20000", big)
	require.NoError(t, err)
	require.NotNil(t, blobEntry)

	table, err := a.TOC.AddEntry(format.DescTable, "wide",
		WithNamespace("public"),
		WithDefinition("CREATE TABLE public.wide (id integer, payload text);"),
	)
	require.NoError(t, err)

	dataEntry, err := a.TOC.AddEntry(format.DescTableData, "wide",
		WithNamespace("public"),
		WithCopyStatement("COPY public.wide (id, payload) FROM stdin;"),
		WithDependencies(table.DumpID),
	)
	require.NoError(t, err)

	rw, err := a.TableDataWriter(dataEntry, []string{"id", "payload"})
	require.NoError(t, err)

	const rowPayloadLen = 1024
	rowPayload := strings.Repeat("x", rowPayloadLen)
	const rowCount = (blockChunkSize*3)/rowPayloadLen + 10
	for i := 0; i < rowCount; i++ {
		require.NoError(t, rw.Append(i, rowPayload))
	}
	require.NoError(t, rw.Close())

	require.NoError(t, a.Save(path))

	loaded, err := Open(path)
	require.NoError(t, err)
	defer loaded.Close()

	var gotBlob []byte
	for rec, blobErr := range loaded.Blobs() {
		require.NoError(t, blobErr)
		if rec.OID != "20000" {
			continue
		}
		data, err := io.ReadAll(rec.Data)
		require.NoError(t, err)
		gotBlob = data
	}
	require.Equal(t, big, gotBlob)

	seq, err := loaded.TableData("public", "wide")
	require.NoError(t, err)

	count := 0
	for values, rowErr := range seq {
		require.NoError(t, rowErr)
		require.Equal(t, int64(count), values[0])
		require.Equal(t, rowPayload, values[1])
		count++
	}
	require.Equal(t, rowCount, count)
}
