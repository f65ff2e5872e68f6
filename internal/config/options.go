// Package config holds the Options struct backing every Read option named
// in spec §6, its go-playground/validator struct tags, and the
// hand-written cross-field checks the tags can't express.
package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/meddhiazoghlami/xltable/internal/header"
	"github.com/meddhiazoghlami/xltable/internal/prepare"
	"github.com/meddhiazoghlami/xltable/internal/rowgate"
	"github.com/meddhiazoghlami/xltable/internal/xerr"
)

// DTypeSpec is the P5 user-dtype override: a blanket type, a by-index map,
// or a by-name map. At most one of these should be populated; precedence
// is ByIndex, then ByName, then Blanket when more than one is set.
type DTypeSpec struct {
	Blanket *prepare.DType
	ByIndex map[int]prepare.DType
	ByName  map[string]prepare.DType
}

// Options mirrors the Read API's option table (spec §6) as a single
// validated struct. It is built by applying functional Options in the
// public package, never constructed directly by callers.
type Options struct {
	HeaderSpec  header.Spec
	Lookup      *header.Lookup
	LookupSize  int `validate:"gte=0"`
	DTypes      DTypeSpec
	SkipCols    map[int]struct{}
	SkipRows    int `validate:"gte=0"`
	SkipAfter   int `validate:"gte=0"`
	TakeRows    *int
	KeepEmpty   bool
	RowFilters  []string
	Strategy    rowgate.Strategy
	PerPair     []rowgate.Strategy
	FloatPrecision  *int `validate:"omitempty,gte=0"`
	DatetimeFormats []string
	ConflictResolve prepare.ConflictStrategy
	NullValues      []string
	NullPredicate   func(string) bool
	RowCallback     func() error
	Parallel        bool
}

// Default returns the option set's zero-value defaults: single-row
// present header, lookup_size 30, conflict_resolve "no", no filters.
func Default() Options {
	return Options{
		HeaderSpec: header.Spec{Kind: header.Present, Rows: 1},
		LookupSize: 30,
		SkipCols:   map[int]struct{}{},
	}
}

var validate = validator.New()

// Validate runs struct-tag validation plus the cross-field checks spec §9
// calls out explicitly: a per-pair strategy list whose length doesn't
// match filter count-1 is rejected here (rowgate.New repeats this check
// once column names are known; this catches it earlier when possible).
func Validate(o Options, sheet string) error {
	if err := validate.Struct(o); err != nil {
		return xerr.New(xerr.KindConfig, sheet, "invalid options").Wrap(err)
	}
	if o.Strategy == rowgate.StrategyPerPair && len(o.RowFilters) > 0 {
		if len(o.PerPair) != len(o.RowFilters)-1 {
			return xerr.Newf(xerr.KindConfig, sheet,
				"row_filters_strategy has %d entries, need %d for %d filters",
				len(o.PerPair), len(o.RowFilters)-1, len(o.RowFilters))
		}
	}
	if o.HeaderSpec.Kind == header.Explicit && len(o.HeaderSpec.Names) == 0 {
		return xerr.New(xerr.KindConfig, sheet, "header=Explicit requires a non-empty name list")
	}
	return nil
}
