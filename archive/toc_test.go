package archive

import (
	"bytes"
	"testing"

	"github.com/pgdmp-go/pgdmp/format"
	"github.com/pgdmp-go/pgdmp/wire"
	"github.com/stretchr/testify/require"
)

func buildSampleTOC(t *testing.T) *TOC {
	t.Helper()
	toc := NewTOC()

	schema, err := toc.AddEntry(format.DescSchema, "public", WithOwner("alice"))
	require.NoError(t, err)

	table, err := toc.AddEntry(format.DescTable, "widgets",
		WithNamespace("public"),
		WithOwner("alice"),
		WithTableAccessMethod("heap"),
		WithRelKind("r"),
		WithDependencies(schema.DumpID),
	)
	require.NoError(t, err)

	_, err = toc.AddEntry(format.DescTableData, "widgets",
		WithNamespace("public"),
		WithCopyStatement("COPY public.widgets FROM stdin;"),
		WithDependencies(table.DumpID),
		WithHadDumper(),
	)
	require.NoError(t, err)

	_, err = toc.AddEntry(format.DescIndex, "widgets_pkey",
		WithNamespace("public"),
		WithDependencies(table.DumpID),
	)
	require.NoError(t, err)

	return toc
}

func encodeDecodeRoundTrip(t *testing.T, version format.ArchiveVersion, toc *TOC) *TOC {
	t.Helper()
	w := wire.NewWriter(4, 8)
	defer w.Release()

	require.NoError(t, EncodeTOC(w, version, toc))

	r := wire.NewReader(bytes.NewReader(w.Bytes()), 4, 8)
	decoded, err := DecodeTOC(r, version)
	require.NoError(t, err)
	return decoded
}

func TestTOCRoundTripV1_16(t *testing.T) {
	toc := buildSampleTOC(t)
	decoded := encodeDecodeRoundTrip(t, format.V1_16, toc)

	require.Len(t, decoded.Entries, len(toc.Entries))
	for i, want := range toc.Entries {
		got := decoded.Entries[i]
		require.Equal(t, want.DumpID, got.DumpID)
		require.Equal(t, want.Tag, got.Tag)
		require.Equal(t, want.Desc, got.Desc)
		require.Equal(t, want.Section, got.Section)
		require.Equal(t, want.Namespace, got.Namespace)
		require.Equal(t, want.TableAM, got.TableAM)
		require.Equal(t, want.RelKind, got.RelKind)
		require.Equal(t, want.Dependencies, got.Dependencies)
		require.Equal(t, want.HadDumper, got.HadDumper)
	}
}

func TestTOCRoundTripV1_12DropsTableAMAndRelKind(t *testing.T) {
	toc := buildSampleTOC(t)
	decoded := encodeDecodeRoundTrip(t, format.V1_12, toc)

	for _, e := range decoded.Entries {
		require.Empty(t, e.TableAM)
		require.Empty(t, e.RelKind)
	}
}

func TestTOCRoundTripSectionRecomputedCanonically(t *testing.T) {
	toc := NewTOC()
	_, err := toc.AddEntry(format.DescIndex, "widgets_pkey")
	require.NoError(t, err)

	decoded := encodeDecodeRoundTrip(t, format.V1_16, toc)
	require.Equal(t, format.SectionPostData, decoded.Entries[0].Section)
}

func TestDecodeTOCRejectsMissingDependency(t *testing.T) {
	toc := NewTOC()
	e, err := toc.AddEntry(format.DescTable, "widgets")
	require.NoError(t, err)
	e.Dependencies = []int64{999} // bypass AddEntry's own validation to test DecodeTOC's

	w := wire.NewWriter(4, 8)
	defer w.Release()
	require.NoError(t, EncodeTOC(w, format.V1_16, toc))

	r := wire.NewReader(bytes.NewReader(w.Bytes()), 4, 8)
	_, err = DecodeTOC(r, format.V1_16)
	require.Error(t, err)
}
