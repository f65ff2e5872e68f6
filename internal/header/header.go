// Package header implements header discovery and naming: the Present /
// Absent / Explicit specifiers, lookup_head scanning, and multi-row header
// concatenation (spec §4.4).
package header

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/meddhiazoghlami/xltable/internal/xerr"
)

// Kind selects which header specifier Resolve applies.
type Kind int

const (
	Present Kind = iota
	Absent
	Explicit
)

// Spec is the caller-provided header configuration (the `header` option).
type Spec struct {
	Kind  Kind
	Rows  int      // Present: number of header rows (N >= 1)
	Names []string // Explicit: caller-supplied column names
}

// Lookup is the optional lookup_head configuration: either a regex pattern
// or an explicit column index, never both.
type Lookup struct {
	Pattern  *regexp.Regexp
	ColIndex *int
}

// RowPeeker returns the stringified cell values for the row at the given
// offset (0-based, relative to the point Resolve starts scanning from), or
// ok=false once the sheet is exhausted.
type RowPeeker func(offset int) (cells map[int]string, ok bool)

// Result is the outcome of header resolution.
type Result struct {
	Names     []string
	RowsUsed  int // rows consumed by lookup scanning plus the header itself
}

const defaultLookupSize = 30

// Resolve runs the header-discovery procedure of spec §4.4. numCols is the
// known sheet width (skipped columns included); for Explicit it is the
// count the supplied names must match.
func Resolve(spec Spec, lookup *Lookup, lookupSize int, peek RowPeeker, numCols int, sheet string) (Result, error) {
	switch spec.Kind {
	case Explicit:
		if len(spec.Names) != numCols {
			return Result{}, xerr.Newf(xerr.KindHeaderMismatch, sheet,
				"explicit header has %d names, sheet has %d columns", len(spec.Names), numCols)
		}
		return Result{Names: append([]string(nil), spec.Names...), RowsUsed: 0}, nil

	case Absent:
		names := make([]string, numCols)
		for i := range names {
			names[i] = fmt.Sprintf("Unnamed: %d", i)
		}
		return Result{Names: names, RowsUsed: 0}, nil

	case Present:
		return resolvePresent(spec, lookup, lookupSize, peek, numCols, sheet)

	default:
		return Result{}, xerr.New(xerr.KindConfig, sheet, "unknown header kind")
	}
}

func resolvePresent(spec Spec, lookup *Lookup, lookupSize int, peek RowPeeker, numCols int, sheet string) (Result, error) {
	if lookupSize <= 0 {
		lookupSize = defaultLookupSize
	}
	if spec.Rows <= 0 {
		spec.Rows = 1
	}

	start := 0
	if lookup != nil {
		found := -1
		for i := 0; i < lookupSize; i++ {
			cells, ok := peek(i)
			if !ok {
				break
			}
			if matchesLookup(lookup, cells) {
				found = i
				break
			}
		}
		if found < 0 {
			return Result{}, xerr.Newf(xerr.KindHeaderLookup, sheet,
				"no row matched lookup_head within lookup_size=%d", lookupSize)
		}
		start = found
	} else if spec.Rows == 1 {
		// "the first N non-empty rows from the top form the header" — skip
		// any fully-blank rows before the header when no lookup_head is given.
		for i := 0; i < lookupSize; i++ {
			cells, ok := peek(i)
			if !ok {
				break
			}
			if len(cells) > 0 {
				start = i
				break
			}
		}
	}

	headerRows := make([][]string, 0, spec.Rows)
	for i := 0; i < spec.Rows; i++ {
		cells, ok := peek(start + i)
		if !ok {
			break
		}
		row := make([]string, numCols)
		for c, v := range cells {
			if c >= 0 && c < numCols {
				row[c] = v
			}
		}
		headerRows = append(headerRows, row)
	}

	var names []string
	if len(headerRows) <= 1 {
		if len(headerRows) == 1 {
			names = headerRows[0]
		} else {
			names = make([]string, numCols)
		}
	} else {
		names = concatenateMultiRow(headerRows, numCols)
	}

	return Result{Names: names, RowsUsed: start + len(headerRows)}, nil
}

func matchesLookup(lookup *Lookup, cells map[int]string) bool {
	if lookup.ColIndex != nil {
		v, ok := cells[*lookup.ColIndex]
		return ok && v != ""
	}
	for _, v := range cells {
		if lookup.Pattern.MatchString(v) {
			return true
		}
	}
	return false
}

// concatenateMultiRow applies horizontal fill-from-left-neighbor to each
// header row, then concatenates non-empty values top-to-bottom per column
// with ", " (spec §4.4 step 5).
func concatenateMultiRow(rows [][]string, numCols int) []string {
	filled := make([][]string, len(rows))
	for r := range rows {
		filled[r] = make([]string, numCols)
		copy(filled[r], rows[r])
		for c := 1; c < numCols; c++ {
			if filled[r][c] == "" {
				filled[r][c] = filled[r][c-1]
			}
		}
	}

	names := make([]string, numCols)
	for c := 0; c < numCols; c++ {
		var parts []string
		for r := range filled {
			if v := filled[r][c]; v != "" {
				parts = append(parts, v)
			}
		}
		names[c] = strings.Join(parts, ", ")
	}
	return names
}
