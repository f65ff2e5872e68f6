// Package chunk implements the Chunk data structure: a run of consecutive
// cells within one column sharing storage shape and representation flags
// (spec §3, §4.1).
package chunk

import (
	"fmt"
	"math"

	"github.com/meddhiazoghlami/xltable/internal/cellmodel"
)

// Chunk is a contiguous run of same-shape cells in one column. Exactly one
// of the value slices is populated, selected by Shape; NullRun chunks carry
// only a count.
type Chunk struct {
	Shape    cellmodel.Shape
	Temporal bool // meaningful only when Shape == ShapeF64
	Origin   int  // row index of the chunk's first element

	Floats     []float64 // ShapeF64
	Rks        []uint32  // ShapeRk32
	Strs       []string  // ShapeInlineStr
	SharedIdxs []uint64  // ShapeSharedIdx
	NullCount  int       // ShapeNull
}

// New starts a new chunk of the given shape at origin row.
func New(shape cellmodel.Shape, temporal bool, origin int) *Chunk {
	return &Chunk{Shape: shape, Temporal: temporal, Origin: origin}
}

// Len returns the number of logical rows this chunk covers.
func (c *Chunk) Len() int {
	switch c.Shape {
	case cellmodel.ShapeF64:
		return len(c.Floats)
	case cellmodel.ShapeRk32:
		return len(c.Rks)
	case cellmodel.ShapeInlineStr:
		return len(c.Strs)
	case cellmodel.ShapeSharedIdx:
		return len(c.SharedIdxs)
	case cellmodel.ShapeNull:
		return c.NullCount
	default:
		return 0
	}
}

// CanExtend reports whether a cell reducing to (shape, temporal) may be
// appended to this chunk without sealing it first (spec §4.1: same storage
// shape AND, for numeric, the same temporal flag).
func (c *Chunk) CanExtend(shape cellmodel.Shape, temporal bool) bool {
	if c.Shape != shape {
		return false
	}
	if shape == cellmodel.ShapeF64 && c.Temporal != temporal {
		return false
	}
	return true
}

// Append extends the chunk with one cell. The caller must have verified
// CanExtend first (or that the chunk is freshly created for this shape);
// Append panics on a shape mismatch since that represents a builder bug,
// not a data error.
func (c *Chunk) Append(cell cellmodel.RawCell) {
	shape, temporal := cellmodel.ShapeOf(cell)
	if !c.CanExtend(shape, temporal) {
		panic(fmt.Sprintf("chunk: Append shape %v into chunk of shape %v", shape, c.Shape))
	}
	switch shape {
	case cellmodel.ShapeF64:
		c.Floats = append(c.Floats, cell.Number)
	case cellmodel.ShapeRk32:
		c.Rks = append(c.Rks, cell.Rk)
	case cellmodel.ShapeInlineStr:
		c.Strs = append(c.Strs, stringOf(cell))
	case cellmodel.ShapeSharedIdx:
		c.SharedIdxs = append(c.SharedIdxs, cell.SharedIdx)
	case cellmodel.ShapeNull:
		c.NullCount++
	}
}

// AppendNulls extends a NullRun chunk by n rows (used to fill skipped rows
// and to coalesce adjacent null runs).
func (c *Chunk) AppendNulls(n int) {
	if c.Shape != cellmodel.ShapeNull {
		panic("chunk: AppendNulls on non-null chunk")
	}
	c.NullCount += n
}

// stringOf renders Boolean/ErrorCode/InlineString cells as the string form
// they collapse to in an InlineStrRun (spec §3: "surfaced as strings during
// prepare").
func stringOf(cell cellmodel.RawCell) string {
	switch cell.Kind {
	case cellmodel.KindInlineString:
		return cell.Str
	case cellmodel.KindBoolean:
		if cell.Bool {
			return "TRUE"
		}
		return "FALSE"
	case cellmodel.KindErrorCode:
		return errString(cell.ErrByte)
	default:
		return ""
	}
}

var errStrings = map[byte]string{
	0x00: "#NULL!",
	0x07: "#DIV/0!",
	0x0F: "#VALUE!",
	0x17: "#REF!",
	0x1D: "#NAME?",
	0x24: "#NUM!",
	0x2A: "#N/A",
	0x2B: "#GETTING_DATA",
}

func errString(b byte) string {
	if s, ok := errStrings[b]; ok {
		return s
	}
	return fmt.Sprintf("0x%02x", b)
}

// TruncateTo shortens the chunk in place so it holds only its first n
// elements. Used by row-gate rollback (spec §4.2 drop_rows / truncate_to).
func (c *Chunk) TruncateTo(n int) {
	switch c.Shape {
	case cellmodel.ShapeF64:
		c.Floats = c.Floats[:n]
	case cellmodel.ShapeRk32:
		c.Rks = c.Rks[:n]
	case cellmodel.ShapeInlineStr:
		c.Strs = c.Strs[:n]
	case cellmodel.ShapeSharedIdx:
		c.SharedIdxs = c.SharedIdxs[:n]
	case cellmodel.ShapeNull:
		c.NullCount = n
	}
}

// Slice returns a new chunk holding the half-open row range [lo, hi) of
// this chunk's elements, with Origin adjusted accordingly. Used by
// drop_rows to carve surviving contiguous runs out of a chunk that
// straddles a dropped region.
func (c *Chunk) Slice(lo, hi int) *Chunk {
	out := &Chunk{Shape: c.Shape, Temporal: c.Temporal, Origin: c.Origin + lo}
	switch c.Shape {
	case cellmodel.ShapeF64:
		out.Floats = append([]float64(nil), c.Floats[lo:hi]...)
	case cellmodel.ShapeRk32:
		out.Rks = append([]uint32(nil), c.Rks[lo:hi]...)
	case cellmodel.ShapeInlineStr:
		out.Strs = append([]string(nil), c.Strs[lo:hi]...)
	case cellmodel.ShapeSharedIdx:
		out.SharedIdxs = append([]uint64(nil), c.SharedIdxs[lo:hi]...)
	case cellmodel.ShapeNull:
		out.NullCount = hi - lo
	}
	return out
}

// StringLookup resolves a shared-strings-table index to its value. The
// table is owned by the read call (spec §3 Ownership) and released after
// prepare.
type StringLookup func(idx uint64) (string, error)

// ExpandedShape is the storage shape after P1 expansion: RkNumber and
// SharedStringRef runs no longer exist.
type ExpandedShape uint8

const (
	ExpandedF64 ExpandedShape = iota
	ExpandedStr
	ExpandedNull
)

// Expanded is the P1 output of one chunk: Rk32Run folded into F64Run
// (non-temporal, since XLSB never marks an RK cell temporal at the chunk
// level — temporal RK values arrive as plain Number cells with the style's
// temporal flag already set), SharedIdxRun resolved into InlineStrRun via
// the shared-strings table, NullRun kept as a count.
type Expanded struct {
	Shape     ExpandedShape
	Temporal  bool
	Origin    int
	Floats    []float64
	Strs      []string
	NullCount int
}

func (e Expanded) Len() int {
	switch e.Shape {
	case ExpandedF64:
		return len(e.Floats)
	case ExpandedStr:
		return len(e.Strs)
	default:
		return e.NullCount
	}
}

// Expand performs P1 on one chunk: RK expansion and shared-string
// materialization. lookup may be nil when the chunk cannot contain
// SharedIdx cells (e.g. the chunk came from an XLSB adapter with no shared
// strings, or is not a SharedIdxRun).
func (c *Chunk) Expand(lookup StringLookup) (Expanded, error) {
	switch c.Shape {
	case cellmodel.ShapeF64:
		return Expanded{Shape: ExpandedF64, Temporal: c.Temporal, Origin: c.Origin, Floats: c.Floats}, nil
	case cellmodel.ShapeRk32:
		floats := make([]float64, len(c.Rks))
		for i, raw := range c.Rks {
			floats[i] = decodeRk(raw)
		}
		return Expanded{Shape: ExpandedF64, Temporal: false, Origin: c.Origin, Floats: floats}, nil
	case cellmodel.ShapeInlineStr:
		return Expanded{Shape: ExpandedStr, Origin: c.Origin, Strs: c.Strs}, nil
	case cellmodel.ShapeSharedIdx:
		strs := make([]string, len(c.SharedIdxs))
		for i, idx := range c.SharedIdxs {
			if lookup == nil {
				return Expanded{}, fmt.Errorf("chunk: shared string index %d but no string table available", idx)
			}
			s, err := lookup(idx)
			if err != nil {
				return Expanded{}, err
			}
			strs[i] = s
		}
		return Expanded{Shape: ExpandedStr, Origin: c.Origin, Strs: strs}, nil
	case cellmodel.ShapeNull:
		return Expanded{Shape: ExpandedNull, Origin: c.Origin, NullCount: c.NullCount}, nil
	default:
		return Expanded{}, fmt.Errorf("chunk: unknown shape %v", c.Shape)
	}
}

// decodeRk expands an XLSB RK-packed 32-bit numeric encoding to float64.
// Bit 1 set: the value is a scaled integer (arithmetic shift right by 2).
// Otherwise the 32 bits become the high word of an IEEE-754 double (low
// word zero). Bit 0 set: divide the final value by 100.
func decodeRk(raw uint32) float64 {
	signed := int32(raw)
	var v float64
	if signed&0x02 != 0 {
		v = float64(signed >> 2)
	} else {
		hi := raw & 0xFFFFFFFC
		bits := uint64(hi) << 32
		v = math.Float64frombits(bits)
	}
	if signed&0x01 != 0 {
		v /= 100
	}
	return v
}
