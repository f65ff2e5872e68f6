// Package prepare implements the P1-P5 convert engine: expansion, temporal
// normalization, float-to-int narrowing, conflict resolution, and user
// dtype overrides (spec §4.5).
package prepare

import "encoding/json"

// DType is a final column logical type.
type DType int

const (
	Float64 DType = iota
	Int64
	TimestampMs
	String
	Null
)

func (d DType) String() string {
	switch d {
	case Float64:
		return "float64"
	case Int64:
		return "int64"
	case TimestampMs:
		return "timestamp[ms]"
	case String:
		return "string"
	case Null:
		return "null"
	default:
		return "unknown"
	}
}

// MarshalJSON renders a DType as its name, not its underlying int, so CLI
// output and GenerateStruct previews stay readable.
func (d DType) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Prepared is one column's final, homogeneous, materialized array. Exactly
// one value slice is meaningful, selected by Type; Valid marks non-null
// positions in every case.
type Prepared struct {
	Type   DType
	Length int

	Floats []float64
	Ints   []int64
	Millis []int64
	Strs   []string

	Valid []bool
}
