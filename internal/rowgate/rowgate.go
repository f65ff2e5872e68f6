// Package rowgate implements the per-row admit/drop decision unit that
// runs ahead of chunk sealing (spec §4.3).
package rowgate

import (
	"regexp"

	"github.com/meddhiazoghlami/xltable/internal/cellmodel"
	"github.com/meddhiazoghlami/xltable/internal/xerr"
)

// Strategy combines multiple row-filter predicates into one verdict.
type Strategy int

const (
	StrategyAnd Strategy = iota
	StrategyOr
	StrategyPerPair
)

// Filter is one compiled row-filter: a regex matched against final column
// names, resolved to the set of column indices it selects. A row satisfies
// the filter iff every selected column's cell is non-blank for that row.
type Filter struct {
	Pattern *regexp.Regexp
	Cols    []int
}

// Config holds the row-gate's admission parameters, already resolved
// against the final (post-header) column name list.
type Config struct {
	HeaderEnd         int      // absolute row index immediately after the header region
	PostHeaderSkip    int      // rows discarded after header, before body (skip_rows_after_header)
	TakeLimit         *int     // take_rows: upper bound on admitted rows
	KeepEmpty         bool     // take_rows_non_empty == false: blank-only rows pass the default gate
	FilterPatterns    []string // row_filters
	Strategy          Strategy
	PerPairStrategies []Strategy // used only when Strategy == StrategyPerPair; len == len(FilterPatterns)-1
}

// Gate is the constructed, ready-to-run admission unit for one sheet read.
type Gate struct {
	bodyStart int
	takeLimit *int
	keepEmpty bool
	filters   []Filter
	strategy  Strategy
	perPair   []Strategy

	admitted int
}

// New compiles the row-gate's filters against columnNames and validates
// the strategy configuration. It returns a ConfigError if any filter
// pattern matches zero columns, or if a per-pair strategy list doesn't
// have exactly len(FilterPatterns)-1 entries (spec §9 open question i).
func New(cfg Config, sheet string, columnNames []string) (*Gate, error) {
	g := &Gate{
		bodyStart: cfg.HeaderEnd + cfg.PostHeaderSkip,
		takeLimit: cfg.TakeLimit,
		keepEmpty: cfg.KeepEmpty,
		strategy:  cfg.Strategy,
		perPair:   cfg.PerPairStrategies,
	}

	for _, pat := range cfg.FilterPatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, xerr.New(xerr.KindConfig, sheet, "invalid row_filters pattern "+pat).Wrap(err)
		}
		var cols []int
		for i, name := range columnNames {
			if re.MatchString(name) {
				cols = append(cols, i)
			}
		}
		if len(cols) == 0 {
			return nil, xerr.Newf(xerr.KindConfig, sheet, "row_filters pattern %q matches no column", pat)
		}
		g.filters = append(g.filters, Filter{Pattern: re, Cols: cols})
	}

	if cfg.Strategy == StrategyPerPair && len(g.filters) > 0 {
		if len(cfg.PerPairStrategies) != len(g.filters)-1 {
			return nil, xerr.Newf(xerr.KindConfig, sheet,
				"row_filters_strategy has %d entries, need %d for %d filters",
				len(cfg.PerPairStrategies), len(g.filters)-1, len(g.filters))
		}
	}

	return g, nil
}

// BodyStart returns the absolute row index at which the body begins.
func (g *Gate) BodyStart() int { return g.bodyStart }

// Done reports whether the take-limit has already been reached; callers
// should stop streaming rows once Done returns true.
func (g *Gate) Done() bool {
	return g.takeLimit != nil && g.admitted >= *g.takeLimit
}

// Decide evaluates one body row, given every cell observed for that row
// (the caller buffers at most one row's width, per spec §4.3). It returns
// whether the row is admitted.
func (g *Gate) Decide(rowCells map[int]cellmodel.RawCell) bool {
	if g.Done() {
		return false
	}

	var verdict bool
	if len(g.filters) == 0 {
		verdict = g.keepEmpty || anyNonBlank(rowCells)
	} else {
		verdict = g.combineFilters(rowCells)
	}

	if verdict {
		g.admitted++
	}
	return verdict
}

func (g *Gate) combineFilters(rowCells map[int]cellmodel.RawCell) bool {
	results := make([]bool, len(g.filters))
	for i, f := range g.filters {
		results[i] = allNonBlank(rowCells, f.Cols)
	}

	switch g.strategy {
	case StrategyAnd:
		for _, r := range results {
			if !r {
				return false
			}
		}
		return true
	case StrategyOr:
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	case StrategyPerPair:
		acc := results[0]
		for i, op := range g.perPair {
			next := results[i+1]
			switch op {
			case StrategyOr:
				acc = acc || next
			default:
				acc = acc && next
			}
		}
		return acc
	default:
		return false
	}
}

func allNonBlank(rowCells map[int]cellmodel.RawCell, cols []int) bool {
	for _, c := range cols {
		cell, ok := rowCells[c]
		if !ok || cell.Kind == cellmodel.KindBlank {
			return false
		}
	}
	return true
}

func anyNonBlank(rowCells map[int]cellmodel.RawCell) bool {
	for _, cell := range rowCells {
		if cell.Kind != cellmodel.KindBlank {
			return true
		}
	}
	return false
}
