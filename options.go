package xltable

import (
	"regexp"

	"github.com/meddhiazoghlami/xltable/internal/config"
	"github.com/meddhiazoghlami/xltable/internal/header"
	"github.com/meddhiazoghlami/xltable/internal/prepare"
	"github.com/meddhiazoghlami/xltable/internal/rowgate"
)

// Option configures a Read/ReadFile/ReadBytes call. Options apply in the
// order given; later options override earlier ones on the same field.
type Option func(*config.Options)

// DType is the logical column type P5 casts a prepared column to.
type DType = prepare.DType

const (
	Float64     = prepare.Float64
	Int64       = prepare.Int64
	TimestampMs = prepare.TimestampMs
	String      = prepare.String
	Null        = prepare.Null
)

// ConflictStrategy selects how P4 resolves a column whose chunks disagree
// on shape.
type ConflictStrategy = prepare.ConflictStrategy

const (
	ConflictNo       = prepare.ConflictNo
	ConflictTemporal = prepare.ConflictTemporal
	ConflictNumeric  = prepare.ConflictNumeric
	ConflictAll      = prepare.ConflictAll
)

// FilterStrategy selects how row_filters combine when more than one
// pattern is given.
type FilterStrategy = rowgate.Strategy

const (
	StrategyAnd     = rowgate.StrategyAnd
	StrategyOr      = rowgate.StrategyOr
	StrategyPerPair = rowgate.StrategyPerPair
)

// WithHeaderRows declares the first n rows (after skip_rows and any
// lookup_head scan) as the header, concatenating them into one name per
// column. n == 0 declares no header, the same as WithoutHeader.
func WithHeaderRows(n int) Option {
	return func(o *config.Options) {
		if n == 0 {
			o.HeaderSpec = header.Spec{Kind: header.Absent}
			return
		}
		o.HeaderSpec = header.Spec{Kind: header.Present, Rows: n}
	}
}

// WithoutHeader declares the sheet has no header row; columns are named
// "Unnamed: N".
func WithoutHeader() Option {
	return func(o *config.Options) {
		o.HeaderSpec = header.Spec{Kind: header.Absent}
	}
}

// WithHeaderNames supplies column names explicitly, bypassing header
// discovery entirely. The list length must equal the sheet's column count.
func WithHeaderNames(names ...string) Option {
	return func(o *config.Options) {
		o.HeaderSpec = header.Spec{Kind: header.Explicit, Names: names}
	}
}

// WithLookupHead scans ahead for the header row by matching pattern
// against every column's stringified cell value.
func WithLookupHead(pattern *regexp.Regexp) Option {
	return func(o *config.Options) {
		o.Lookup = &header.Lookup{Pattern: pattern}
	}
}

// WithLookupHeadColumn scans ahead for the header row by requiring column
// col to hold any non-blank value.
func WithLookupHeadColumn(col int) Option {
	return func(o *config.Options) {
		c := col
		o.Lookup = &header.Lookup{ColIndex: &c}
	}
}

// WithLookupSize bounds how many rows lookup_head (or Explicit-less header
// discovery) will scan before giving up.
func WithLookupSize(n int) Option {
	return func(o *config.Options) { o.LookupSize = n }
}

// WithDType forces every column to dtype t, unless overridden per-column by
// WithDTypeAt or WithDTypeByName.
func WithDType(t DType) Option {
	return func(o *config.Options) {
		d := t
		o.DTypes.Blanket = &d
	}
}

// WithDTypeAt forces the column at sheet index col to dtype t.
func WithDTypeAt(col int, t DType) Option {
	return func(o *config.Options) {
		if o.DTypes.ByIndex == nil {
			o.DTypes.ByIndex = map[int]DType{}
		}
		o.DTypes.ByIndex[col] = t
	}
}

// WithDTypeByName forces the column named name to dtype t.
func WithDTypeByName(name string, t DType) Option {
	return func(o *config.Options) {
		if o.DTypes.ByName == nil {
			o.DTypes.ByName = map[string]DType{}
		}
		o.DTypes.ByName[name] = t
	}
}

// WithSkipCols excludes the given sheet column indices entirely; no series
// is ever built for them.
func WithSkipCols(cols ...int) Option {
	return func(o *config.Options) {
		if o.SkipCols == nil {
			o.SkipCols = map[int]struct{}{}
		}
		for _, c := range cols {
			o.SkipCols[c] = struct{}{}
		}
	}
}

// WithSkipRows skips the first n rows of the sheet before header discovery
// even begins.
func WithSkipRows(n int) Option {
	return func(o *config.Options) { o.SkipRows = n }
}

// WithSkipRowsAfterHeader skips n rows immediately after the header,
// before the body is admitted to the row gate.
func WithSkipRowsAfterHeader(n int) Option {
	return func(o *config.Options) { o.SkipAfter = n }
}

// WithTakeRows stops admitting body rows once n have been admitted.
func WithTakeRows(n int) Option {
	return func(o *config.Options) {
		v := n
		o.TakeRows = &v
	}
}

// WithTakeRowsNonEmpty controls whether an entirely-blank row counts
// towards take_rows and is otherwise admitted at all. Default true.
func WithTakeRowsNonEmpty(b bool) Option {
	return func(o *config.Options) { o.KeepEmpty = !b }
}

// WithRowFilters admits only rows that satisfy the filters (combined per
// WithRowFiltersStrategy, default AND). Each pattern is matched against the
// final column names; a row satisfies it when every column it selects is
// non-blank in that row, per rowgate's Filter contract.
func WithRowFilters(patterns ...string) Option {
	return func(o *config.Options) { o.RowFilters = patterns }
}

// WithRowFiltersStrategy selects how multiple row_filters combine: AND
// (all must match), OR (any must match), or PerPair (a strategy between
// each consecutive pair, len(strategies) == len(patterns)-1).
func WithRowFiltersStrategy(strategy FilterStrategy, perPair ...FilterStrategy) Option {
	return func(o *config.Options) {
		o.Strategy = strategy
		o.PerPair = perPair
	}
}

// WithFloatPrecision enables P3 narrowing: a purely numeric column whose
// every value equals itself rounded to n decimal places becomes Int64.
// Any other column is left as it is; no value is rounded.
func WithFloatPrecision(n int) Option {
	return func(o *config.Options) {
		v := n
		o.FloatPrecision = &v
	}
}

// WithDatetimeFormats supplies strftime-style layouts tried, in order,
// when a string cell must be coerced to a timestamp during conflict
// resolution.
func WithDatetimeFormats(layouts ...string) Option {
	return func(o *config.Options) { o.DatetimeFormats = layouts }
}

// WithConflictResolve selects how P4 resolves a column whose chunks
// disagree on shape.
func WithConflictResolve(s ConflictStrategy) Option {
	return func(o *config.Options) { o.ConflictResolve = s }
}

// WithNullValues treats any string or boolean cell whose text equals one
// of these literals as Blank. Numeric cells are never matched.
func WithNullValues(values ...string) Option {
	return func(o *config.Options) { o.NullValues = values }
}

// WithNullPredicate treats any string or boolean cell whose text satisfies
// pred as Blank, in addition to any WithNullValues literals. Numeric cells
// are never passed to pred.
func WithNullPredicate(pred func(string) bool) Option {
	return func(o *config.Options) { o.NullPredicate = pred }
}

// WithRowCallback invokes fn after every admitted row; a non-nil error
// aborts the read with a Cancelled error.
func WithRowCallback(fn func() error) Option {
	return func(o *config.Options) { o.RowCallback = fn }
}

// WithParallel allows P1-P5 to run across independent columns concurrently.
func WithParallel(b bool) Option {
	return func(o *config.Options) { o.Parallel = b }
}
