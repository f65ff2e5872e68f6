package xlsb

import (
	"fmt"
	"io"

	"github.com/meddhiazoghlami/xltable/internal/cellmodel"
	"github.com/meddhiazoghlami/xltable/internal/chunk"
)

// rowStream walks a worksheet's SheetData record run and yields one row's
// cells at a time, grounded on go-xlsb's worksheet.Rows iterator — adapted
// to pull one row per Next() call instead of a range-over-func generator,
// matching the RowStream contract's one-row buffering (spec §4.3).
type rowStream struct {
	rs      *recordStream
	strings *sharedStrings
	styles  *styleTable

	// lookahead holds a ROW record already read from rs but not yet
	// consumed, because it turned out to belong to the row after the one
	// currently being assembled.
	haveLookahead  bool
	lookaheadRowID int

	done bool
}

func newRowStream(data []byte, strings *sharedStrings, styles *styleTable) *rowStream {
	rs := newRecordStream(data)
	seekToSheetData(rs)
	return &rowStream{rs: rs, strings: strings, styles: styles}
}

// seekToSheetData advances rs past the SHEETDATA marker so row parsing
// starts exactly at the first ROW record, mirroring go-xlsb's pre-scan.
func seekToSheetData(rs *recordStream) {
	for {
		recID, _, err := rs.next()
		if err != nil {
			return
		}
		if recID == recSheetData {
			return
		}
	}
}

func (rws *rowStream) Next() (int, map[int]cellmodel.RawCell, bool, error) {
	if rws.done {
		return 0, nil, false, nil
	}

	row := map[int]cellmodel.RawCell{}
	haveRow := false
	rowIdx := 0

	if rws.haveLookahead {
		rowIdx = rws.lookaheadRowID
		haveRow = true
		rws.haveLookahead = false
	}

	for {
		recID, payload, err := rws.rs.next()
		if err != nil {
			if err == io.EOF {
				rws.done = true
				if haveRow {
					return rowIdx, row, true, nil
				}
				return 0, nil, false, nil
			}
			return 0, nil, false, fmt.Errorf("xlsb: %w", err)
		}

		switch {
		case recID == recRow:
			idx, perr := parseRowRecord(payload)
			if perr != nil {
				continue
			}
			if haveRow {
				// This ROW record belongs to the next row; hand the
				// current one back now and replay it on the next call.
				rws.haveLookahead = true
				rws.lookaheadRowID = idx
				return rowIdx, row, true, nil
			}
			rowIdx = idx
			haveRow = true

		case recID >= recBlank && recID <= recFormulaBoolErr:
			if !haveRow {
				continue
			}
			col, cell, perr := rws.parseCellRecord(recID, payload)
			if perr != nil {
				return 0, nil, false, perr
			}
			row[col] = cell

		case recID == recSheetDataEnd:
			rws.done = true
			if haveRow {
				return rowIdx, row, true, nil
			}
			return 0, nil, false, nil
		}
	}
}

func (rws *rowStream) parseCellRecord(recID int, payload []byte) (int, cellmodel.RawCell, error) {
	c := newPayloadCursor(payload)
	colU, err := c.u32()
	if err != nil {
		return 0, cellmodel.Blank, fmt.Errorf("xlsb: cell record: reading column: %w", err)
	}
	col := int(colU)
	styleRaw, err := c.u32()
	if err != nil {
		return col, cellmodel.Blank, fmt.Errorf("xlsb: cell record: reading style: %w", err)
	}
	style := int(styleRaw & 0x7FFFFFFF)
	isDate := rws.styles.IsDate(style)

	switch recID {
	case recBlank:
		return col, cellmodel.Blank, nil

	case recNum:
		raw, err := c.u32()
		if err != nil {
			return col, cellmodel.Blank, nil
		}
		if isDate {
			return col, cellmodel.Number(decodeRk(raw), true), nil
		}
		return col, cellmodel.RkNumber(raw), nil

	case recBoolErr:
		b, err := c.u8()
		if err != nil {
			return col, cellmodel.Blank, nil
		}
		return col, cellmodel.ErrorCode(b), nil

	case recBool:
		b, err := c.u8()
		if err != nil {
			return col, cellmodel.Blank, nil
		}
		return col, cellmodel.Boolean(b != 0), nil

	case recFloat:
		f, err := c.f64()
		if err != nil {
			return col, cellmodel.Blank, nil
		}
		return col, cellmodel.Number(f, isDate), nil

	case recString:
		idx, err := c.u32()
		if err != nil {
			return col, cellmodel.Blank, nil
		}
		return col, cellmodel.SharedStringRef(uint64(idx)), nil

	case recFormulaString:
		s, err := c.rkString()
		if err != nil {
			return col, cellmodel.Blank, nil
		}
		return col, cellmodel.InlineString(s), nil

	case recFormulaFloat:
		f, err := c.f64()
		if err != nil {
			return col, cellmodel.Blank, nil
		}
		return col, cellmodel.Number(f, isDate), nil

	case recFormulaBool:
		b, err := c.u8()
		if err != nil {
			return col, cellmodel.Blank, nil
		}
		return col, cellmodel.Boolean(b != 0), nil

	case recFormulaBoolErr:
		b, err := c.u8()
		if err != nil {
			return col, cellmodel.Blank, nil
		}
		return col, cellmodel.ErrorCode(b), nil

	default:
		return col, cellmodel.Blank, nil
	}
}

func parseRowRecord(payload []byte) (int, error) {
	c := newPayloadCursor(payload)
	r, err := c.u32()
	if err != nil {
		return 0, err
	}
	const maxRowIndex = 0xFFFFF
	if r > maxRowIndex {
		return 0, fmt.Errorf("xlsb: row index %d exceeds Excel maximum", r)
	}
	return int(r), nil
}

// Strings exposes the shared-strings table as a chunk.StringLookup for P1
// expansion; nil when the workbook carries no sharedStrings.bin part.
func (rws *rowStream) Strings() chunk.StringLookup {
	if rws.strings == nil {
		return nil
	}
	return rws.strings.Get
}

func (rws *rowStream) Close() error { return nil }
