package xltable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddhiazoghlami/xltable/internal/assemble"
	"github.com/meddhiazoghlami/xltable/internal/prepare"
)

func floatColumn(vals []float64, valid []bool) prepare.Prepared {
	return prepare.Prepared{Type: Float64, Length: len(vals), Floats: vals, Valid: valid}
}

func stringColumn(vals []string, valid []bool) prepare.Prepared {
	return prepare.Prepared{Type: String, Length: len(vals), Strs: vals, Valid: valid}
}

func newTestTable() *Table {
	t := assemble.Table{
		Names: []string{"id", "amount"},
		Columns: []prepare.Prepared{
			stringColumn([]string{"a", "b", "c"}, []bool{true, true, true}),
			floatColumn([]float64{1, 2, 0}, []bool{true, true, false}),
		},
		Rows: 3,
	}
	return &Table{inner: t}
}

func TestTable_ColumnAccessors(t *testing.T) {
	tbl := newTestTable()
	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, 2, tbl.NumCols())

	id, ok := tbl.Column("id")
	require.True(t, ok)
	v, ok := id.String(1)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	amount := tbl.ColumnAt(1)
	assert.True(t, amount.IsNull(2))
	f, ok := amount.Float64(0)
	require.True(t, ok)
	assert.Equal(t, 1.0, f)
}

func TestTable_AnalyzeColumns(t *testing.T) {
	tbl := newTestTable()
	stats := tbl.AnalyzeColumns()
	require.Len(t, stats, 2)

	amountStats := stats[1]
	assert.Equal(t, 1, amountStats.NullCount)
	assert.True(t, amountStats.HasNumericStats)
	assert.Equal(t, 3.0, amountStats.Sum)
	assert.Equal(t, 1.5, amountStats.Avg)
}

func TestDiffTables_DetectsAddedRemovedAndChanged(t *testing.T) {
	oldT := &Table{inner: assemble.Table{
		Names: []string{"id", "amount"},
		Columns: []prepare.Prepared{
			stringColumn([]string{"a", "b"}, []bool{true, true}),
			floatColumn([]float64{1, 2}, []bool{true, true}),
		},
		Rows: 2,
	}}
	newT := &Table{inner: assemble.Table{
		Names: []string{"id", "amount"},
		Columns: []prepare.Prepared{
			stringColumn([]string{"a", "c"}, []bool{true, true}),
			floatColumn([]float64{9, 3}, []bool{true, true}),
		},
		Rows: 2,
	}}

	diff, err := DiffTables(oldT, newT, "id")
	require.NoError(t, err)
	assert.True(t, diff.HasChanges())

	var sawAdded, sawRemoved bool
	for _, r := range diff.Rows {
		switch r.Key {
		case "c":
			sawAdded = r.Added
		case "b":
			sawRemoved = r.Removed
		}
	}
	assert.True(t, sawAdded)
	assert.True(t, sawRemoved)
}

func TestGenerateStruct_SanitizesFieldNames(t *testing.T) {
	tbl := newTestTable()
	src := tbl.GenerateStruct(SchemaOptions{StructName: "Record", PackageName: "models"})
	assert.Contains(t, src, "package models")
	assert.Contains(t, src, "type Record struct")
	assert.Contains(t, src, "Id string")
	assert.Contains(t, src, "Amount float64")
}

func TestSanitizeFieldName(t *testing.T) {
	assert.Equal(t, "OrderId", sanitizeFieldName("order id"))
	assert.Equal(t, "F2024", sanitizeFieldName("2024"))
}
