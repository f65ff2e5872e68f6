// Package series implements ColumnSeries: the append-only sequence of
// chunks that accumulates one column's cells during the read phase (spec
// §4.2).
package series

import (
	"sort"

	"github.com/meddhiazoghlami/xltable/internal/cellmodel"
	"github.com/meddhiazoghlami/xltable/internal/chunk"
)

// ColumnSeries accumulates RawCells for one column and seals them into a
// list of Chunks. It never re-reads a cell once recorded: Record either
// extends the open chunk or seals it and opens a new one.
type ColumnSeries struct {
	chunks []*chunk.Chunk
	open   *chunk.Chunk
	sealed bool
	rows   int // logical row count recorded so far
}

// New returns an empty series.
func New() *ColumnSeries {
	return &ColumnSeries{}
}

// Record appends one cell at the given row. Rows must arrive in increasing
// order; a gap (row beyond s.rows) is filled with Blank cells so that
// chunk lengths always track logical row position.
func (s *ColumnSeries) Record(row int, cell cellmodel.RawCell) {
	for s.rows < row {
		s.recordOne(cellmodel.Blank)
	}
	s.recordOne(cell)
}

// PadTo fills s with Blank cells until it holds n rows. Used after the body
// loop ends to bring every column up to the admitted-row count, since both
// adapters omit trailing blank cells from a row and Record only ever fills
// gaps that precede a later recorded row.
func (s *ColumnSeries) PadTo(n int) {
	for s.rows < n {
		s.recordOne(cellmodel.Blank)
	}
}

func (s *ColumnSeries) recordOne(cell cellmodel.RawCell) {
	shape, temporal := cellmodel.ShapeOf(cell)
	if s.open == nil || !s.open.CanExtend(shape, temporal) {
		s.open = chunk.New(shape, temporal, s.rows)
		s.chunks = append(s.chunks, s.open)
	}
	s.open.Append(cell)
	s.rows++
}

// Seal finalizes the series: no further Record calls are valid afterward.
// Present for symmetry with the chunk-boundary model; the series is
// already in its final shape the moment the last Record returns.
func (s *ColumnSeries) Seal() {
	s.sealed = true
}

// Len returns the number of logical rows recorded.
func (s *ColumnSeries) Len() int { return s.rows }

// Chunks returns the sealed chunk list in row order.
func (s *ColumnSeries) Chunks() []*chunk.Chunk { return s.chunks }

// TruncateTo rolls the series back to its first n rows, for row-gate
// rollback when a buffered row turns out to be dropped. It is only valid
// before Seal.
func (s *ColumnSeries) TruncateTo(n int) {
	if s.sealed {
		panic("series: TruncateTo after Seal")
	}
	if n >= s.rows {
		return
	}
	idx := sort.Search(len(s.chunks), func(i int) bool {
		return s.chunks[i].Origin+s.chunks[i].Len() > n
	})
	if idx == len(s.chunks) {
		s.rows = n
		return
	}
	keep := s.chunks[idx]
	local := n - keep.Origin
	if local <= 0 {
		s.chunks = s.chunks[:idx]
	} else {
		keep.TruncateTo(local)
		s.chunks = s.chunks[:idx+1]
	}
	s.rows = n
	if len(s.chunks) > 0 {
		s.open = s.chunks[len(s.chunks)-1]
	} else {
		s.open = nil
	}
}

// DropRows removes the rows named in drop (0-based, absolute row indices)
// from the series, splitting and renumbering chunks as needed, and
// coalescing adjacent runs that end up sharing shape and temporal flag
// (notably two NullRun chunks straddling a dropped non-null row).
func (s *ColumnSeries) DropRows(drop map[int]struct{}) {
	if len(drop) == 0 {
		return
	}
	var rebuilt []*chunk.Chunk
	newRow := 0
	for _, c := range s.chunks {
		segStart := 0
		for i := 0; i <= c.Len(); i++ {
			absRow := c.Origin + i
			_, isDrop := drop[absRow]
			if i == c.Len() || isDrop {
				if i > segStart {
					seg := c.Slice(segStart, i)
					seg.Origin = newRow
					rebuilt = appendCoalesced(rebuilt, seg)
					newRow += seg.Len()
				}
				segStart = i + 1
			}
		}
	}
	s.chunks = rebuilt
	s.rows = newRow
	if len(s.chunks) > 0 {
		s.open = s.chunks[len(s.chunks)-1]
	} else {
		s.open = nil
	}
}

func appendCoalesced(chunks []*chunk.Chunk, seg *chunk.Chunk) []*chunk.Chunk {
	if len(chunks) == 0 {
		return append(chunks, seg)
	}
	last := chunks[len(chunks)-1]
	if last.Shape == seg.Shape && last.Shape == cellmodel.ShapeNull {
		last.AppendNulls(seg.NullCount)
		return chunks
	}
	if last.Shape == seg.Shape && last.Temporal == seg.Temporal && last.Shape != cellmodel.ShapeNull {
		// Merge non-null runs of identical representation that became
		// adjacent once dropped rows were removed: the two halves of a
		// chunk split around a dropped row, or two chunks whose chunk in
		// between was dropped entirely.
		switch last.Shape {
		case cellmodel.ShapeF64:
			last.Floats = append(last.Floats, seg.Floats...)
		case cellmodel.ShapeRk32:
			last.Rks = append(last.Rks, seg.Rks...)
		case cellmodel.ShapeInlineStr:
			last.Strs = append(last.Strs, seg.Strs...)
		case cellmodel.ShapeSharedIdx:
			last.SharedIdxs = append(last.SharedIdxs, seg.SharedIdxs...)
		}
		return chunks
	}
	return append(chunks, seg)
}

// DominantShape reports the shape covering the most rows across the
// series, ties broken plain-numeric > temporal-numeric > string > null
// (RK runs count as plain-numeric, shared-string runs as string). Temporal
// is reported as ShapeF64 with Temporal true.
func (s *ColumnSeries) DominantShape() (shape cellmodel.Shape, temporal bool) {
	var numeric, temporalNumeric, str, null int
	for _, c := range s.chunks {
		switch c.Shape {
		case cellmodel.ShapeF64:
			if c.Temporal {
				temporalNumeric += c.Len()
			} else {
				numeric += c.Len()
			}
		case cellmodel.ShapeRk32:
			numeric += c.Len()
		case cellmodel.ShapeInlineStr, cellmodel.ShapeSharedIdx:
			str += c.Len()
		case cellmodel.ShapeNull:
			null += c.Len()
		}
	}

	switch {
	case numeric > 0 && numeric >= temporalNumeric && numeric >= str:
		return cellmodel.ShapeF64, false
	case temporalNumeric > 0 && temporalNumeric >= str:
		return cellmodel.ShapeF64, true
	case str > 0:
		return cellmodel.ShapeInlineStr, false
	default:
		_ = null
		return cellmodel.ShapeNull, false
	}
}
