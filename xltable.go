// Package xltable reads XLSX and XLSB workbooks into a columnar table with
// inferred or explicitly specified logical column types, deferring all
// conversion until the sheet has been fully read.
//
// Basic usage:
//
//	table, err := xltable.ReadFile("data.xlsx", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, name := range table.Names() {
//	    col, _ := table.Column(name)
//	    fmt.Println(name, col.Type())
//	}
//
// With options:
//
//	table, err := xltable.ReadFile("data.xlsb", "Sheet1",
//	    xltable.WithLookupHead(regexp.MustCompile("^id$")),
//	    xltable.WithConflictResolve(xltable.ConflictTemporal),
//	)
package xltable

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/meddhiazoghlami/xltable/internal/assemble"
	"github.com/meddhiazoghlami/xltable/internal/cellmodel"
	"github.com/meddhiazoghlami/xltable/internal/chunk"
	"github.com/meddhiazoghlami/xltable/internal/config"
	"github.com/meddhiazoghlami/xltable/internal/header"
	"github.com/meddhiazoghlami/xltable/internal/prepare"
	"github.com/meddhiazoghlami/xltable/internal/rowgate"
	"github.com/meddhiazoghlami/xltable/internal/series"
	"github.com/meddhiazoghlami/xltable/internal/source"
	"github.com/meddhiazoghlami/xltable/internal/source/xlsb"
	"github.com/meddhiazoghlami/xltable/internal/source/xlsx"
	"github.com/meddhiazoghlami/xltable/internal/xerr"
	"github.com/meddhiazoghlami/xltable/internal/xlog"
)

// ReadFile reads sheet (by 0-based index or exact name) out of the workbook
// at path, detecting XLSX vs XLSB from the file's magic bytes.
func ReadFile(path string, sheet any, opts ...Option) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("xltable: %w", err)
	}
	return ReadBytes(data, sheet, opts...)
}

// ReadBytes reads sheet out of an in-memory workbook buffer.
func ReadBytes(data []byte, sheet any, opts ...Option) (*Table, error) {
	format, err := source.DetectFormat(data)
	if err != nil {
		return nil, err
	}

	var cs source.CellSource
	switch format {
	case source.FormatXLSX:
		cs, err = xlsx.Open(data)
	case source.FormatXLSB:
		cs, err = xlsb.Open(data)
	default:
		return nil, fmt.Errorf("xltable: unrecognized workbook format")
	}
	if err != nil {
		return nil, err
	}
	defer cs.Close()

	return Read(cs, sheet, opts...)
}

// Read runs one sheet of an already-open CellSource through the full read
// lifecycle (spec §4.7): skip, header discovery, row-gate admission, P1-P5
// preparation, and table assembly.
func Read(cs source.CellSource, sheet any, opts ...Option) (*Table, error) {
	o := config.Default()
	for _, opt := range opts {
		opt(&o)
	}

	sheetName := sheetLabel(cs, sheet)
	if err := config.Validate(o, sheetName); err != nil {
		return nil, err
	}

	log := xlog.ReadID(uuid.NewString())

	rs, err := cs.OpenSheet(sheet)
	if err != nil {
		return nil, xerr.New(xerr.KindSheetNotFound, sheetName, "opening sheet").Wrap(err)
	}
	defer rs.Close()

	d := &driver{
		opts:    o,
		sheet:   sheetName,
		rs:      rs,
		lookup:  rs.Strings(),
		columns: map[int]*series.ColumnSeries{},
	}

	log.Debug().Str("sheet", sheetName).Msg("starting read")
	return d.run()
}

func sheetLabel(cs source.CellSource, sheet any) string {
	switch v := sheet.(type) {
	case string:
		return v
	case int:
		names := cs.SheetNames()
		if v >= 0 && v < len(names) {
			return names[v]
		}
		return fmt.Sprintf("index %d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// driver carries the mutable state of one Read call as it walks the
// Init -> Skipping -> InHeaderLookup -> InHeader -> InBody -> Sealed ->
// Prepared -> Emitted lifecycle (spec §4.7).
type driver struct {
	opts   config.Options
	sheet  string
	rs     source.RowStream
	lookup chunk.StringLookup

	columns  map[int]*series.ColumnSeries
	colOrder []int
	numCols  int
	headerNames map[int]string
}

func (d *driver) run() (*Table, error) {
	buf := newRowBuffer(d.rs, d.opts.SkipRows)

	hdr, err := d.resolveHeader(buf)
	if err != nil {
		return nil, err
	}

	gate, err := rowgate.New(rowgate.Config{
		HeaderEnd:         d.opts.SkipRows + hdr.RowsUsed,
		PostHeaderSkip:    d.opts.SkipAfter,
		TakeLimit:         d.opts.TakeRows,
		KeepEmpty:         d.opts.KeepEmpty,
		FilterPatterns:    d.opts.RowFilters,
		Strategy:          d.opts.Strategy,
		PerPairStrategies: d.opts.PerPair,
	}, d.sheet, hdr.Names)
	if err != nil {
		return nil, err
	}

	bodyOffset := hdr.RowsUsed + d.opts.SkipAfter
	next := buf.bodyRows(bodyOffset)

	admittedRow := 0
	for {
		if gate.Done() {
			break
		}
		_, cells, ok, err := next()
		if err != nil {
			return nil, xerr.New(xerr.KindFormat, d.sheet, "reading body row").Wrap(err)
		}
		if !ok {
			break
		}

		cells = d.applyNullValues(cells)

		if !gate.Decide(cells) {
			continue
		}

		for col, cell := range cells {
			if _, skip := d.opts.SkipCols[col]; skip {
				continue
			}
			d.record(col, admittedRow, cell)
		}
		admittedRow++

		if d.opts.RowCallback != nil {
			if err := d.opts.RowCallback(); err != nil {
				return nil, xerr.New(xerr.KindCancelled, d.sheet, "row_callback aborted the read").Wrap(err)
			}
		}
	}

	// Every header-named column not omitted by skip_cols must surface in the
	// table even if it never received a single cell (spec §8 null
	// preservation), and every column
	// recorded so far must be padded out to admittedRow: both adapters omit
	// trailing blank cells from a row, so a column blank in the sheet's last
	// admitted row would otherwise come up short of its neighbors.
	for col := range d.headerNames {
		if _, skip := d.opts.SkipCols[col]; skip {
			continue
		}
		if _, ok := d.columns[col]; !ok {
			d.columns[col] = series.New()
			d.colOrder = append(d.colOrder, col)
		}
	}
	for _, s := range d.columns {
		s.PadTo(admittedRow)
		s.Seal()
	}

	return d.prepareAndAssemble()
}

// record ensures a column series exists for col (lazily, in discovery
// order) and appends cell to it.
func (d *driver) record(col, row int, cell cellmodel.RawCell) {
	s, ok := d.columns[col]
	if !ok {
		s = series.New()
		d.columns[col] = s
		d.colOrder = append(d.colOrder, col)
	}
	s.Record(row, cell)
}

// resolveHeader buffers ahead over buf to satisfy header.Resolve's
// RowPeeker contract, then widens numCols to the union of column indices
// observed within the header's scanning window.
func (d *driver) resolveHeader(buf *rowBuffer) (header.Result, error) {
	window := d.opts.LookupSize
	if d.opts.HeaderSpec.Rows > window {
		window = d.opts.HeaderSpec.Rows
	}
	if window <= 0 {
		window = 1
	}

	maxCol := -1
	var peekErr error
	peek := func(offset int) (map[int]string, bool) {
		cells, ok, err := buf.peek(offset)
		if err != nil {
			peekErr = err
			return nil, false
		}
		if !ok {
			return nil, false
		}
		for c := range cells {
			if c > maxCol {
				maxCol = c
			}
		}
		return stringifyRow(cells, d.lookup), true
	}

	// Prime the peek window so numCols reflects every column the header
	// region actually uses, not just the first row.
	for i := 0; i < window; i++ {
		if _, ok := peek(i); !ok {
			break
		}
	}
	if peekErr != nil {
		return header.Result{}, xerr.New(xerr.KindFormat, d.sheet, "scanning header region").Wrap(peekErr)
	}

	numCols := maxCol + 1
	d.numCols = numCols

	res, err := header.Resolve(d.opts.HeaderSpec, d.opts.Lookup, d.opts.LookupSize, peek, numCols, d.sheet)
	if err != nil {
		return header.Result{}, err
	}
	if peekErr != nil {
		return header.Result{}, xerr.New(xerr.KindFormat, d.sheet, "scanning header region").Wrap(peekErr)
	}

	d.headerNames = map[int]string{}
	for i, n := range res.Names {
		d.headerNames[i] = n
	}
	return res, nil
}

// applyNullValues converts any string or boolean cell whose text matches
// null_values (literal list or predicate) to Blank, uniformly across
// adapters (spec §6 null_values); numeric cells are left as they are.
func (d *driver) applyNullValues(cells map[int]cellmodel.RawCell) map[int]cellmodel.RawCell {
	if len(d.opts.NullValues) == 0 && d.opts.NullPredicate == nil {
		return cells
	}
	out := make(map[int]cellmodel.RawCell, len(cells))
	for col, cell := range cells {
		if s, isStr := stringValue(cell, d.lookup); isStr && d.matchesNull(s) {
			out[col] = cellmodel.Blank
			continue
		}
		out[col] = cell
	}
	return out
}

func (d *driver) matchesNull(s string) bool {
	for _, v := range d.opts.NullValues {
		if s == v {
			return true
		}
	}
	if d.opts.NullPredicate != nil {
		return d.opts.NullPredicate(s)
	}
	return false
}

func (d *driver) prepareAndAssemble() (*Table, error) {
	sort.Ints(d.colOrder)

	jobs := make([]prepare.ColumnJob, 0, len(d.colOrder))
	results := make([]assemble.ColumnResult, 0, len(d.colOrder))
	names := make([]string, len(d.colOrder))

	for i, col := range d.colOrder {
		name := d.columnName(col)
		names[i] = name
		jobs = append(jobs, prepare.ColumnJob{
			Name:   name,
			Series: d.columns[col],
			Config: prepare.Config{
				FloatPrecision:   d.opts.FloatPrecision,
				DatetimeFormats:  d.opts.DatetimeFormats,
				ConflictStrategy: d.opts.ConflictResolve,
				DType:            d.dtypeFor(col, name),
			},
		})
	}

	prepared, err := prepare.Columns(context.Background(), jobs, d.lookup, d.sheet, d.opts.Parallel)
	if err != nil {
		return nil, err
	}
	for i, col := range d.colOrder {
		results = append(results, assemble.ColumnResult{
			Name:     names[i],
			SheetCol: col,
			Prepared: prepared[i],
		})
	}

	t, err := assemble.Assemble(results, d.opts.SkipCols, d.sheet)
	if err != nil {
		return nil, err
	}
	return &Table{inner: t}, nil
}

func (d *driver) columnName(col int) string {
	if n, ok := d.headerNames[col]; ok {
		return n
	}
	return fmt.Sprintf("Unnamed: %d", col)
}

func (d *driver) dtypeFor(col int, name string) *prepare.DType {
	if dt, ok := d.opts.DTypes.ByIndex[col]; ok {
		return &dt
	}
	if dt, ok := d.opts.DTypes.ByName[name]; ok {
		return &dt
	}
	if d.opts.DTypes.Blanket != nil {
		return d.opts.DTypes.Blanket
	}
	return nil
}

// stringValue renders a cell's natural string form, for null_values
// matching. Numeric cells have no "sentinel string" reading distinct from
// their value, so they never match a null_values literal.
func stringValue(c cellmodel.RawCell, lookup chunk.StringLookup) (string, bool) {
	switch c.Kind {
	case cellmodel.KindInlineString:
		return c.Str, true
	case cellmodel.KindSharedStringRef:
		if lookup == nil {
			return "", false
		}
		s, err := lookup(c.SharedIdx)
		if err != nil {
			return "", false
		}
		return s, true
	case cellmodel.KindBoolean:
		if c.Bool {
			return "TRUE", true
		}
		return "FALSE", true
	default:
		return "", false
	}
}

func stringifyRow(cells map[int]cellmodel.RawCell, lookup chunk.StringLookup) map[int]string {
	out := make(map[int]string, len(cells))
	for col, c := range cells {
		if s, ok := stringValue(c, lookup); ok {
			out[col] = s
			continue
		}
		switch c.Kind {
		case cellmodel.KindNumber:
			out[col] = strconv.FormatFloat(c.Number, 'f', -1, 64)
		case cellmodel.KindRkNumber:
			out[col] = strconv.FormatFloat(decodeRk(c.Rk), 'f', -1, 64)
		}
	}
	return out
}

// decodeRk expands an RK-packed 32-bit numeric for header-lookup
// stringification. Duplicated from internal/chunk's unexported decodeRk
// (same duplication already used in internal/source/xlsb, for the same
// reason: a header cell must be readable as a string before P1 expansion
// ever runs).
func decodeRk(raw uint32) float64 {
	signed := int32(raw)
	if signed&0x02 != 0 {
		v := float64(signed >> 2)
		if signed&0x01 != 0 {
			v /= 100
		}
		return v
	}
	hi := raw & 0xFFFFFFFC
	v := math.Float64frombits(uint64(hi) << 32)
	if signed&0x01 != 0 {
		v /= 100
	}
	return v
}
