// Package xerr defines the closed set of error kinds xltable reports to
// callers, per the error-handling design: every error carries the sheet name
// and, where meaningful, a (row, column) location.
package xerr

import "fmt"

// Kind identifies one of the error kinds a Read call can fail with.
type Kind string

const (
	KindFormat          Kind = "format"           // malformed archive or record
	KindSheetNotFound    Kind = "sheet_not_found"
	KindHeaderLookup     Kind = "header_lookup"    // lookup_size exhausted without a match
	KindHeaderMismatch   Kind = "header_mismatch"  // explicit names count != column count
	KindConfig           Kind = "config"           // bad/conflicting options
	KindDTypeCast        Kind = "dtype_cast"
	KindSharedStrings    Kind = "shared_strings"   // corrupt shared-strings table
	KindCancelled        Kind = "cancelled"        // row_callback aborted the read
)

// Error is the concrete error type returned for every failure kind above.
type Error struct {
	Kind  Kind
	Sheet string
	Row   *int
	Col   *int
	Msg   string
	Err   error // wrapped cause, if any
}

func (e *Error) Error() string {
	loc := ""
	if e.Row != nil && e.Col != nil {
		loc = fmt.Sprintf(" (row %d, col %d)", *e.Row, *e.Col)
	} else if e.Row != nil {
		loc = fmt.Sprintf(" (row %d)", *e.Row)
	}
	base := fmt.Sprintf("xltable: %s: sheet %q%s: %s", e.Kind, e.Sheet, loc, e.Msg)
	if e.Err != nil {
		return base + ": " + e.Err.Error()
	}
	return base
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, xerr.SheetNotFound) against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newSentinel(k Kind) *Error { return &Error{Kind: k} }

// Sentinels for errors.Is comparisons against a bare kind (no sheet/location).
var (
	SheetNotFound  = newSentinel(KindSheetNotFound)
	HeaderLookup   = newSentinel(KindHeaderLookup)
	HeaderMismatch = newSentinel(KindHeaderMismatch)
	Config         = newSentinel(KindConfig)
	DTypeCast      = newSentinel(KindDTypeCast)
	SharedStrings  = newSentinel(KindSharedStrings)
	Format         = newSentinel(KindFormat)
	Cancelled      = newSentinel(KindCancelled)
)

// New builds a located error of the given kind.
func New(kind Kind, sheet, msg string) *Error {
	return &Error{Kind: kind, Sheet: sheet, Msg: msg}
}

// Newf builds a located error with a formatted message.
func Newf(kind Kind, sheet, format string, args ...any) *Error {
	return &Error{Kind: kind, Sheet: sheet, Msg: fmt.Sprintf(format, args...)}
}

// WithRowCol returns a copy of e with row/col location attached.
func (e *Error) WithRowCol(row, col int) *Error {
	cp := *e
	cp.Row = &row
	cp.Col = &col
	return &cp
}

// Wrap attaches an underlying cause.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}
