package xltable

import (
	"github.com/meddhiazoghlami/xltable/internal/cellmodel"
	"github.com/meddhiazoghlami/xltable/internal/source"
)

// rowBuffer adapts a strictly-sequential source.RowStream to the random-
// offset peek access header.Resolve requires, while keeping the body read
// streaming rather than materializing the whole sheet: only the rows
// touched during header discovery (bounded by lookup_size) are ever held
// in buf at once.
type rowBuffer struct {
	rs       source.RowStream
	skipRows int
	skipped  bool

	buf       []bufferedRow
	exhausted bool
}

type bufferedRow struct {
	rowIdx int
	cells  map[int]cellmodel.RawCell
}

func newRowBuffer(rs source.RowStream, skipRows int) *rowBuffer {
	return &rowBuffer{rs: rs, skipRows: skipRows}
}

func (b *rowBuffer) doSkip() error {
	if b.skipped {
		return nil
	}
	b.skipped = true
	for i := 0; i < b.skipRows; i++ {
		_, _, ok, err := b.rs.Next()
		if err != nil {
			return err
		}
		if !ok {
			b.exhausted = true
			return nil
		}
	}
	return nil
}

// peek returns the cells of the row at the given offset (0-based, relative
// to the first row after skip_rows), buffering intervening rows as needed.
func (b *rowBuffer) peek(offset int) (map[int]cellmodel.RawCell, bool, error) {
	if err := b.doSkip(); err != nil {
		return nil, false, err
	}
	for len(b.buf) <= offset {
		if b.exhausted {
			return nil, false, nil
		}
		rowIdx, cells, ok, err := b.rs.Next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			b.exhausted = true
			return nil, false, nil
		}
		b.buf = append(b.buf, bufferedRow{rowIdx: rowIdx, cells: cells})
	}
	return b.buf[offset].cells, true, nil
}

// bodyRows returns an iterator over rows starting at startOffset (relative
// to the first row after skip_rows). Rows already buffered by header
// lookup are replayed from buf; once that prefix is exhausted it reads
// straight through rs without retaining anything further.
func (b *rowBuffer) bodyRows(startOffset int) func() (int, map[int]cellmodel.RawCell, bool, error) {
	offset := 0
	return func() (int, map[int]cellmodel.RawCell, bool, error) {
		for {
			if offset < len(b.buf) {
				row := b.buf[offset]
				offset++
				if offset-1 < startOffset {
					continue
				}
				return row.rowIdx, row.cells, true, nil
			}

			if err := b.doSkip(); err != nil {
				return 0, nil, false, err
			}
			rowIdx, cells, ok, err := b.rs.Next()
			if err != nil {
				return 0, nil, false, err
			}
			if !ok {
				return 0, nil, false, nil
			}
			cur := offset
			offset++
			if cur < startOffset {
				continue
			}
			return rowIdx, cells, true, nil
		}
	}
}
