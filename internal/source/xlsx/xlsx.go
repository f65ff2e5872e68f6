// Package xlsx adapts github.com/xuri/excelize/v2 to the CellSource
// contract: cell-by-cell style/type lookups driving per-cell
// classification.
package xlsx

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/meddhiazoghlami/xltable/internal/cellmodel"
	"github.com/meddhiazoghlami/xltable/internal/chunk"
	"github.com/meddhiazoghlami/xltable/internal/dateconv"
	"github.com/meddhiazoghlami/xltable/internal/source"
)

// Source wraps an open excelize.File.
type Source struct {
	f *excelize.File
}

// Open reads an XLSX workbook from raw bytes.
func Open(data []byte) (*Source, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xlsx: open: %w", err)
	}
	return &Source{f: f}, nil
}

func (s *Source) SheetNames() []string {
	return s.f.GetSheetList()
}

func (s *Source) Close() error {
	return s.f.Close()
}

// OpenSheet resolves nameOrIndex (string name or int 0-based index) and
// returns a streaming RowStream over it.
func (s *Source) OpenSheet(nameOrIndex any) (source.RowStream, error) {
	name, err := resolveSheetName(s.f, nameOrIndex)
	if err != nil {
		return nil, err
	}
	rows, err := s.f.Rows(name)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open sheet %q: %w", name, err)
	}
	return &rowStream{f: s.f, sheet: name, rows: rows, rowIdx: -1}, nil
}

func resolveSheetName(f *excelize.File, nameOrIndex any) (string, error) {
	switch v := nameOrIndex.(type) {
	case string:
		return v, nil
	case int:
		names := f.GetSheetList()
		if v < 0 || v >= len(names) {
			return "", fmt.Errorf("xlsx: sheet index %d out of range", v)
		}
		return names[v], nil
	default:
		return "", fmt.Errorf("xlsx: unsupported sheet selector %T", nameOrIndex)
	}
}

type rowStream struct {
	f      *excelize.File
	sheet  string
	rows   *excelize.Rows
	rowIdx int
}

func (r *rowStream) Next() (int, map[int]cellmodel.RawCell, bool, error) {
	if !r.rows.Next() {
		return 0, nil, false, r.rows.Error()
	}
	r.rowIdx++

	raw, err := r.rows.Columns(excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, nil, false, fmt.Errorf("xlsx: row %d: %w", r.rowIdx, err)
	}

	cells := make(map[int]cellmodel.RawCell, len(raw))
	for col, v := range raw {
		cell, err := r.classify(col, v)
		if err != nil {
			return 0, nil, false, err
		}
		cells[col] = cell
	}
	return r.rowIdx, cells, true, nil
}

func (r *rowStream) classify(col int, raw string) (cellmodel.RawCell, error) {
	if raw == "" {
		return cellmodel.Blank, nil
	}
	axis, err := excelize.CoordinatesToCellName(col+1, r.rowIdx+1)
	if err != nil {
		return cellmodel.Blank, err
	}

	cellType, err := r.f.GetCellType(r.sheet, axis)
	if err != nil {
		return cellmodel.Blank, err
	}

	switch cellType {
	case excelize.CellTypeBool:
		return cellmodel.Boolean(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeNumber, excelize.CellTypeDate:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return cellmodel.InlineString(raw), nil
		}
		temporal, err := r.isTemporalCell(axis)
		if err != nil {
			return cellmodel.Blank, err
		}
		return cellmodel.Number(v, temporal), nil
	default:
		return cellmodel.InlineString(raw), nil
	}
}

func (r *rowStream) isTemporalCell(axis string) (bool, error) {
	styleID, err := r.f.GetCellStyle(r.sheet, axis)
	if err != nil {
		return false, err
	}
	style, err := r.f.GetStyle(styleID)
	if err != nil || style == nil {
		return false, nil
	}
	var custom string
	if style.CustomNumFmt != nil {
		custom = *style.CustomNumFmt
	}
	return dateconv.IsDateFormat(style.NumFmt, custom), nil
}

// Strings: XLSX as read through excelize's Rows API has no separate
// shared-strings surface to expose — cell values arrive already resolved.
// No SharedStringRef cells are ever produced by this adapter.
func (r *rowStream) Strings() chunk.StringLookup { return nil }

func (r *rowStream) Close() error { return r.rows.Close() }
