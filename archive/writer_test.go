package archive

import (
	"testing"

	"github.com/pgdmp-go/pgdmp/errs"
	"github.com/pgdmp-go/pgdmp/format"
	"github.com/stretchr/testify/require"
)

func TestTopologicalSortOrdersByDependency(t *testing.T) {
	toc := NewTOC()
	schema, err := toc.AddEntry(format.DescSchema, "public")
	require.NoError(t, err)
	table, err := toc.AddEntry(format.DescTable, "widgets", WithDependencies(schema.DumpID))
	require.NoError(t, err)
	_, err = toc.AddEntry(format.DescIndex, "widgets_pkey", WithDependencies(table.DumpID))
	require.NoError(t, err)
	_, err = toc.AddEntry(format.DescTableData, "widgets", WithDependencies(table.DumpID))
	require.NoError(t, err)

	sorted, err := topologicalSort(toc)
	require.NoError(t, err)
	require.Len(t, sorted, 4)

	pos := make(map[int64]int, len(sorted))
	for i, e := range sorted {
		pos[e.DumpID] = i
	}
	require.Less(t, pos[schema.DumpID], pos[table.DumpID])
	require.Less(t, pos[table.DumpID], pos[sorted[len(sorted)-1].DumpID])
}

func TestTopologicalSortBreaksTiesBySection(t *testing.T) {
	toc := NewTOC()
	// No dependencies among these three: Pre-Data, Data, Post-Data, in
	// reverse insertion order, should still come out section-ordered.
	idx, err := toc.AddEntry(format.DescIndex, "i1")
	require.NoError(t, err)
	data, err := toc.AddEntry(format.DescTableData, "t1")
	require.NoError(t, err)
	schema, err := toc.AddEntry(format.DescSchema, "s1")
	require.NoError(t, err)

	sorted, err := topologicalSort(toc)
	require.NoError(t, err)

	pos := make(map[int64]int, len(sorted))
	for i, e := range sorted {
		pos[e.DumpID] = i
	}
	require.Less(t, pos[schema.DumpID], pos[data.DumpID])
	require.Less(t, pos[data.DumpID], pos[idx.DumpID])
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	toc := NewTOC()
	a, err := toc.AddEntry(format.DescTable, "a")
	require.NoError(t, err)
	b, err := toc.AddEntry(format.DescTable, "b", WithDependencies(a.DumpID))
	require.NoError(t, err)

	// Hand-craft a cycle: AddEntry itself would reject this (b doesn't
	// exist yet when a is added), so mutate directly.
	a.Dependencies = append(a.Dependencies, b.DumpID)

	_, err = topologicalSort(toc)
	require.ErrorIs(t, err, errs.ErrCyclicDependencies)
}
