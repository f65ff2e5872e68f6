// Package cellmodel defines the raw cell sum type adapters feed into the
// chunked column builder, and the storage shapes chunks are keyed on.
//
// RawCell mirrors spec §3 exactly: a cell is one of a small set of variants,
// chosen so that decisions made during reading (row-gate admit/drop) stay
// consistent with decisions made during prepare (convert/stringify) without
// re-deriving anything from bytes.
package cellmodel

// Kind discriminates the RawCell variants.
type Kind uint8

const (
	KindNumber Kind = iota
	KindRkNumber
	KindInlineString
	KindSharedStringRef
	KindBoolean
	KindErrorCode
	KindBlank
)

// RawCell is a tagged union over the cell encodings spec §3 names. Only the
// field matching Kind is meaningful.
type RawCell struct {
	Kind Kind

	Number   float64 // KindNumber
	Temporal bool    // KindNumber: style marked this as date/time/duration

	Rk uint32 // KindRkNumber: packed XLSB numeric encoding, expansion deferred

	Str string // KindInlineString

	SharedIdx uint64 // KindSharedStringRef: index into the workbook's shared-strings table

	Bool bool // KindBoolean

	ErrByte byte // KindErrorCode: BIFF-style error byte code
}

// Blank is the canonical Blank cell value.
var Blank = RawCell{Kind: KindBlank}

// Number builds a numeric (non-RK) cell.
func Number(v float64, temporal bool) RawCell {
	return RawCell{Kind: KindNumber, Number: v, Temporal: temporal}
}

// RkNumber builds an XLSB packed-numeric cell.
func RkNumber(raw uint32) RawCell {
	return RawCell{Kind: KindRkNumber, Rk: raw}
}

// InlineString builds an inline UTF-8 string cell.
func InlineString(s string) RawCell {
	return RawCell{Kind: KindInlineString, Str: s}
}

// SharedStringRef builds a shared-strings-table index cell.
func SharedStringRef(idx uint64) RawCell {
	return RawCell{Kind: KindSharedStringRef, SharedIdx: idx}
}

// Boolean builds a boolean cell.
func Boolean(v bool) RawCell {
	return RawCell{Kind: KindBoolean, Bool: v}
}

// ErrorCode builds an Excel error-value cell (e.g. #DIV/0!).
func ErrorCode(b byte) RawCell {
	return RawCell{Kind: KindErrorCode, ErrByte: b}
}

// Shape identifies the homogeneous storage representation a chunk holds.
// Boolean and ErrorCode collapse onto InlineStrRun per spec §4.1.
type Shape uint8

const (
	ShapeF64 Shape = iota
	ShapeRk32
	ShapeInlineStr
	ShapeSharedIdx
	ShapeNull
)

func (s Shape) String() string {
	switch s {
	case ShapeF64:
		return "f64"
	case ShapeRk32:
		return "rk32"
	case ShapeInlineStr:
		return "inline_str"
	case ShapeSharedIdx:
		return "shared_idx"
	case ShapeNull:
		return "null"
	default:
		return "unknown"
	}
}

// ShapeOf returns the storage shape a cell reduces to, and (for KindNumber)
// whether the temporal flag applies. Boolean and ErrorCode cells always
// report ShapeInlineStr with temporal=false, since they are surfaced as
// strings during prepare (spec §3).
func ShapeOf(c RawCell) (shape Shape, temporal bool) {
	switch c.Kind {
	case KindNumber:
		return ShapeF64, c.Temporal
	case KindRkNumber:
		return ShapeRk32, false
	case KindInlineString, KindBoolean, KindErrorCode:
		return ShapeInlineStr, false
	case KindSharedStringRef:
		return ShapeSharedIdx, false
	case KindBlank:
		return ShapeNull, false
	default:
		return ShapeNull, false
	}
}
