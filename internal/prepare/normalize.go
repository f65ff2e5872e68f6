package prepare

import (
	"github.com/meddhiazoghlami/xltable/internal/chunk"
	"github.com/meddhiazoghlami/xltable/internal/dateconv"
)

// category is a run's logical type once P1 (expansion) and P2 (temporal
// normalization) have both run; spec §4.5 P4 defines "conflict" over these
// three plus null.
type category int

const (
	catNull category = iota
	catNumeric
	catTemporal
	catString
)

// run is one contiguous, same-category stretch of a column after P1/P2.
// Chunk boundaries are preserved (a run corresponds 1:1 to a chunk) so
// later stages can concatenate in original row order.
type run struct {
	cat       category
	floats    []float64 // catNumeric
	millis    []int64   // catTemporal
	strs      []string  // catString
	nullCount int        // catNull
}

func (r run) length() int {
	switch r.cat {
	case catNumeric:
		return len(r.floats)
	case catTemporal:
		return len(r.millis)
	case catString:
		return len(r.strs)
	default:
		return r.nullCount
	}
}

// normalizeChunks runs P1 (expansion) and P2 (temporal normalization) over
// every chunk of a column, in order.
func normalizeChunks(chunks []*chunk.Chunk, lookup chunk.StringLookup) ([]run, error) {
	runs := make([]run, 0, len(chunks))
	for _, c := range chunks {
		exp, err := c.Expand(lookup)
		if err != nil {
			return nil, err
		}
		runs = append(runs, normalizeExpanded(exp))
	}
	return runs, nil
}

func normalizeExpanded(exp chunk.Expanded) run {
	switch exp.Shape {
	case chunk.ExpandedNull:
		return run{cat: catNull, nullCount: exp.NullCount}
	case chunk.ExpandedStr:
		return run{cat: catString, strs: exp.Strs}
	case chunk.ExpandedF64:
		if !exp.Temporal {
			return run{cat: catNumeric, floats: exp.Floats}
		}
		millis := make([]int64, len(exp.Floats))
		for i, v := range exp.Floats {
			millis[i] = dateconv.SerialToUnixMillis(v)
		}
		return run{cat: catTemporal, millis: millis}
	default:
		return run{cat: catNull}
	}
}

// presentCategories reports which of {numeric, temporal, string} have at
// least one non-null element across runs.
func presentCategories(runs []run) map[category]bool {
	present := map[category]bool{}
	for _, r := range runs {
		if r.length() > 0 && r.cat != catNull {
			present[r.cat] = true
		}
	}
	return present
}
