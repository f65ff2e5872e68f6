// Package assemble implements the table assembler: concatenating prepared
// per-column arrays into one table, preserving column order, validating
// equal lengths, and applying skip_cols (spec §4.6).
package assemble

import (
	"github.com/meddhiazoghlami/xltable/internal/prepare"
	"github.com/meddhiazoghlami/xltable/internal/xerr"
)

// ColumnResult pairs a discovered column's name, its originating sheet
// column index, and its prepared array.
type ColumnResult struct {
	Name     string
	SheetCol int
	Prepared prepare.Prepared
}

// Table is the assembled output: column order matches source-sheet
// left-to-right, skipping omitted/empty columns.
type Table struct {
	Names   []string
	Columns []prepare.Prepared
	Rows    int
}

// Assemble validates that every surviving column has equal length and
// applies skip_cols (0-based source column indices already decided at read
// time, so this is a final defensive filter rather than the primary
// mechanism — the primary exclusion happens before any series is built).
func Assemble(results []ColumnResult, skipCols map[int]struct{}, sheet string) (Table, error) {
	var rows = -1
	t := Table{}
	for _, r := range results {
		if _, skip := skipCols[r.SheetCol]; skip {
			continue
		}
		if rows == -1 {
			rows = r.Prepared.Length
		} else if r.Prepared.Length != rows {
			return Table{}, xerr.Newf(xerr.KindFormat, sheet,
				"column %q has length %d, expected %d", r.Name, r.Prepared.Length, rows)
		}
		t.Names = append(t.Names, r.Name)
		t.Columns = append(t.Columns, r.Prepared)
	}
	if rows == -1 {
		rows = 0
	}
	t.Rows = rows
	return t, nil
}
