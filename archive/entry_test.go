package archive

import (
	"testing"

	"github.com/pgdmp-go/pgdmp/errs"
	"github.com/pgdmp-go/pgdmp/format"
	"github.com/stretchr/testify/require"
)

func TestAddEntryAssignsDumpID(t *testing.T) {
	toc := NewTOC()

	e1, err := toc.AddEntry(format.DescSchema, "public")
	require.NoError(t, err)
	require.Equal(t, int64(1), e1.DumpID)

	e2, err := toc.AddEntry(format.DescTable, "widgets")
	require.NoError(t, err)
	require.Equal(t, int64(2), e2.DumpID)
}

func TestAddEntrySectionDerivedFromDescriptor(t *testing.T) {
	toc := NewTOC()

	e, err := toc.AddEntry(format.DescIndex, "widgets_pkey")
	require.NoError(t, err)
	require.Equal(t, format.SectionPostData, e.Section)
}

func TestAddEntryUnknownDescriptor(t *testing.T) {
	toc := NewTOC()

	_, err := toc.AddEntry(format.Descriptor("NOT A REAL DESCRIPTOR"), "x")
	require.Error(t, err)

	var pgErr *errs.Error
	require.ErrorAs(t, err, &pgErr)
	require.Equal(t, errs.KindUnknownDescriptor, pgErr.Kind)
}

func TestAddEntryDuplicateDumpID(t *testing.T) {
	toc := NewTOC()

	_, err := toc.AddEntry(format.DescSchema, "public", WithDumpID(7))
	require.NoError(t, err)

	_, err = toc.AddEntry(format.DescTable, "widgets", WithDumpID(7))
	require.ErrorIs(t, err, errs.ErrInvalidID)
}

func TestAddEntryMissingDependency(t *testing.T) {
	toc := NewTOC()

	_, err := toc.AddEntry(format.DescTable, "widgets", WithDependencies(999))
	require.ErrorIs(t, err, errs.ErrMissingDependency)
}

func TestLookupEntryNotFound(t *testing.T) {
	toc := NewTOC()

	_, err := toc.AddEntry(format.DescTable, "widgets", WithNamespace("public"))
	require.NoError(t, err)

	_, err = toc.LookupEntry(format.DescTable, "public", "gadgets")
	require.ErrorIs(t, err, errs.ErrEntityNotFound)
}

func TestLookupEntryFound(t *testing.T) {
	toc := NewTOC()

	want, err := toc.AddEntry(format.DescTable, "widgets", WithNamespace("public"))
	require.NoError(t, err)

	got, err := toc.LookupEntry(format.DescTable, "public", "widgets")
	require.NoError(t, err)
	require.Same(t, want, got)
}
