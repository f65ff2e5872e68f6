package xltable

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/meddhiazoghlami/xltable/internal/assemble"
	"github.com/meddhiazoghlami/xltable/internal/prepare"
)

// Table is the final columnar output of a Read call: one homogeneously
// typed, materialized array per surviving column, all of equal length.
type Table struct {
	inner assemble.Table
}

// Names returns column names in source-sheet left-to-right order.
func (t *Table) Names() []string { return t.inner.Names }

// NumCols returns the number of surviving columns.
func (t *Table) NumCols() int { return len(t.inner.Columns) }

// Rows returns the number of rows every column holds.
func (t *Table) Rows() int { return t.inner.Rows }

// Column returns the named column, or ok=false if no such column survived.
func (t *Table) Column(name string) (*Column, bool) {
	for i, n := range t.inner.Names {
		if n == name {
			return &Column{name: n, p: t.inner.Columns[i]}, true
		}
	}
	return nil, false
}

// ColumnAt returns the column at the given position.
func (t *Table) ColumnAt(i int) *Column {
	return &Column{name: t.inner.Names[i], p: t.inner.Columns[i]}
}

// Column is one table column's name paired with its prepared array.
type Column struct {
	name string
	p    prepare.Prepared
}

// Name returns the column's header name.
func (c *Column) Name() string { return c.name }

// Type returns the column's final logical type.
func (c *Column) Type() DType { return c.p.Type }

// Len returns the number of rows in the column.
func (c *Column) Len() int { return c.p.Length }

// IsNull reports whether row i holds no value.
func (c *Column) IsNull(i int) bool { return !c.p.Valid[i] }

// Float64 returns row i as a float64, valid only when Type() == Float64.
func (c *Column) Float64(i int) (float64, bool) {
	if !c.p.Valid[i] || c.p.Type != Float64 {
		return 0, false
	}
	return c.p.Floats[i], true
}

// Int64 returns row i as an int64, valid only when Type() == Int64.
func (c *Column) Int64(i int) (int64, bool) {
	if !c.p.Valid[i] || c.p.Type != Int64 {
		return 0, false
	}
	return c.p.Ints[i], true
}

// TimestampMs returns row i as Unix milliseconds, valid only when
// Type() == TimestampMs.
func (c *Column) TimestampMs(i int) (int64, bool) {
	if !c.p.Valid[i] || c.p.Type != TimestampMs {
		return 0, false
	}
	return c.p.Millis[i], true
}

// String returns row i as a string, valid only when Type() == String.
func (c *Column) String(i int) (string, bool) {
	if !c.p.Valid[i] || c.p.Type != String {
		return "", false
	}
	return c.p.Strs[i], true
}

// ColumnStats summarizes one column's contents. Unlike a row-of-cells
// model, Type is never inferred here: P5 has already pinned it down
// exactly, so TotalCount/NullCount/UniqueCount/Min/Max/Sum/Avg are
// computed straight off the typed array.
type ColumnStats struct {
	Name            string   `json:"name"`
	Index           int      `json:"index"`
	Type            DType    `json:"type"`
	TotalCount      int      `json:"total_count"`
	NullCount       int      `json:"null_count"`
	UniqueCount     int      `json:"unique_count"`
	SampleValues    []string `json:"sample_values,omitempty"`
	Min             float64  `json:"min,omitempty"`
	Max             float64  `json:"max,omitempty"`
	Sum             float64  `json:"sum,omitempty"`
	Avg             float64  `json:"avg,omitempty"`
	HasNumericStats bool     `json:"has_numeric_stats"`
}

// AnalyzeColumns computes per-column statistics over the whole table.
func (t *Table) AnalyzeColumns() []ColumnStats {
	out := make([]ColumnStats, t.NumCols())
	for i := range t.inner.Columns {
		out[i] = analyzeColumn(i, t.inner.Names[i], t.inner.Columns[i])
	}
	return out
}

func analyzeColumn(idx int, name string, p prepare.Prepared) ColumnStats {
	stats := ColumnStats{Name: name, Index: idx, Type: p.Type, TotalCount: p.Length}

	seen := map[string]struct{}{}
	const maxSamples = 5
	numeric := p.Type == Float64 || p.Type == Int64 || p.Type == TimestampMs
	var sum float64
	var count int
	min, max := math.Inf(1), math.Inf(-1)

	for i := 0; i < p.Length; i++ {
		if !p.Valid[i] {
			stats.NullCount++
			continue
		}
		var sample string
		var numVal float64
		switch p.Type {
		case Float64:
			numVal = p.Floats[i]
			sample = fmt.Sprintf("%v", numVal)
		case Int64:
			numVal = float64(p.Ints[i])
			sample = fmt.Sprintf("%d", p.Ints[i])
		case TimestampMs:
			numVal = float64(p.Millis[i])
			sample = fmt.Sprintf("%d", p.Millis[i])
		case String:
			sample = p.Strs[i]
		}
		if _, ok := seen[sample]; !ok {
			seen[sample] = struct{}{}
			stats.UniqueCount++
			if len(stats.SampleValues) < maxSamples {
				stats.SampleValues = append(stats.SampleValues, sample)
			}
		}
		if numeric {
			count++
			sum += numVal
			if numVal < min {
				min = numVal
			}
			if numVal > max {
				max = numVal
			}
		}
	}

	if numeric && count > 0 {
		stats.HasNumericStats = true
		stats.Min = min
		stats.Max = max
		stats.Sum = sum
		stats.Avg = sum / float64(count)
	}
	return stats
}

// CellDiff describes one column's value change between two rows matched by
// key.
type CellDiff struct {
	Column   string
	OldValue string
	NewValue string
}

// RowDiff describes the change to a single row, identified by its key
// column value.
type RowDiff struct {
	Key      string
	Added    bool
	Removed  bool
	Changed  []CellDiff
}

// DiffResult is the outcome of DiffTables.
type DiffResult struct {
	Rows []RowDiff
}

// HasChanges reports whether any row was added, removed, or changed.
func (d DiffResult) HasChanges() bool { return len(d.Rows) > 0 }

// TotalChanges counts added, removed, and per-cell changes across all rows.
func (d DiffResult) TotalChanges() int {
	n := 0
	for _, r := range d.Rows {
		if r.Added || r.Removed {
			n++
			continue
		}
		n += len(r.Changed)
	}
	return n
}

// DiffTables compares oldTable and newTable row by row, matched on
// keyColumn's stringified value, reporting added rows, removed rows, and
// per-column value changes for rows present in both.
func DiffTables(oldTable, newTable *Table, keyColumn string) (DiffResult, error) {
	oldKey, ok := oldTable.Column(keyColumn)
	if !ok {
		return DiffResult{}, fmt.Errorf("xltable: old table has no column %q", keyColumn)
	}
	newKey, ok := newTable.Column(keyColumn)
	if !ok {
		return DiffResult{}, fmt.Errorf("xltable: new table has no column %q", keyColumn)
	}

	oldRows := indexByKey(oldKey)
	newRows := indexByKey(newKey)

	var result DiffResult
	for key, oi := range oldRows {
		ni, ok := newRows[key]
		if !ok {
			result.Rows = append(result.Rows, RowDiff{Key: key, Removed: true})
			continue
		}
		var changed []CellDiff
		for ci, name := range oldTable.Names() {
			nc, ok := newTable.Column(name)
			if !ok {
				continue
			}
			oldVal := cellText(oldTable.ColumnAt(ci), oi)
			newVal := cellText(nc, ni)
			if oldVal != newVal {
				changed = append(changed, CellDiff{Column: name, OldValue: oldVal, NewValue: newVal})
			}
		}
		if len(changed) > 0 {
			result.Rows = append(result.Rows, RowDiff{Key: key, Changed: changed})
		}
	}
	for key := range newRows {
		if _, ok := oldRows[key]; !ok {
			result.Rows = append(result.Rows, RowDiff{Key: key, Added: true})
		}
	}
	sort.Slice(result.Rows, func(i, j int) bool { return result.Rows[i].Key < result.Rows[j].Key })
	return result, nil
}

func indexByKey(c *Column) map[string]int {
	out := make(map[string]int, c.Len())
	for i := 0; i < c.Len(); i++ {
		out[cellText(c, i)] = i
	}
	return out
}

func cellText(c *Column, i int) string {
	if c.IsNull(i) {
		return ""
	}
	switch c.Type() {
	case Float64:
		v, _ := c.Float64(i)
		return fmt.Sprintf("%v", v)
	case Int64:
		v, _ := c.Int64(i)
		return fmt.Sprintf("%d", v)
	case TimestampMs:
		v, _ := c.TimestampMs(i)
		return fmt.Sprintf("%d", v)
	case String:
		v, _ := c.String(i)
		return v
	default:
		return ""
	}
}

// SchemaOptions configures GenerateStruct.
type SchemaOptions struct {
	StructName  string
	PackageName string
	JSONTags    bool
	OmitEmpty   bool
}

// DefaultSchemaOptions returns the recommended options: struct Row in
// package main, with JSON tags. GenerateStruct fills in an empty StructName
// or PackageName with those same names, but leaves JSONTags as given.
func DefaultSchemaOptions() SchemaOptions {
	return SchemaOptions{StructName: "Row", PackageName: "main", JSONTags: true}
}

// GenerateStruct renders a Go struct definition whose fields mirror the
// table's columns, one field per column in the order given by Names.
// Unlike a row-of-cells reader, the field type never needs inferring: P5
// has already pinned every column to an exact DType.
func (t *Table) GenerateStruct(opts SchemaOptions) string {
	if opts.StructName == "" {
		opts.StructName = "Row"
	}
	if opts.PackageName == "" {
		opts.PackageName = "main"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", opts.PackageName)
	fmt.Fprintf(&b, "type %s struct {\n", opts.StructName)

	used := map[string]int{}
	for i, name := range t.inner.Names {
		field := sanitizeFieldName(name)
		field = makeUnique(field, used)
		goType := dtypeToGoType(t.inner.Columns[i].Type)
		tag := ""
		if opts.JSONTags {
			jsonName := name
			if opts.OmitEmpty {
				jsonName += ",omitempty"
			}
			tag = fmt.Sprintf(" `json:\"%s\"`", jsonName)
		}
		fmt.Fprintf(&b, "\t%s %s%s\n", field, goType, tag)
	}
	b.WriteString("}\n")
	return b.String()
}

func dtypeToGoType(d DType) string {
	switch d {
	case Float64:
		return "float64"
	case Int64:
		return "int64"
	case TimestampMs:
		return "int64"
	case String:
		return "string"
	default:
		return "any"
	}
}

func sanitizeFieldName(name string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if upperNext {
				r = unicode.ToUpper(r)
				upperNext = false
			}
			b.WriteRune(r)
		} else {
			upperNext = true
		}
	}
	field := b.String()
	if field == "" {
		return "Field"
	}
	if unicode.IsDigit(rune(field[0])) {
		field = "F" + field
	}
	return field
}

func makeUnique(name string, used map[string]int) string {
	n := used[name]
	used[name]++
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s%d", name, n+1)
}
