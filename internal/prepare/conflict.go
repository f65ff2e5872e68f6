package prepare

import (
	"strconv"
	"strings"
	"time"

	"github.com/meddhiazoghlami/xltable/internal/dateconv"
)

// ConflictStrategy selects the P4 policy (spec §4.5 P4).
type ConflictStrategy int

const (
	ConflictNo ConflictStrategy = iota
	ConflictTemporal
	ConflictNumeric
	ConflictAll
)

const defaultISOFormat = "2006-01-02T15:04:05Z07:00"

// resolveConflict applies P4 to a column whose runs span more than one of
// {numeric, temporal, string}. It always succeeds: any coercion failure
// falls back to stringifying every non-null run (strategy "no"), per the
// per-column-recovered rule in spec §7.
func resolveConflict(runs []run, strategy ConflictStrategy, formats []string) (out []run, finalCat category, fellBack bool) {
	present := presentCategories(runs)

	switch strategy {
	case ConflictTemporal:
		if present[catTemporal] {
			if coerced, ok := tryCoerceAll(runs, catTemporal, formats); ok {
				return coerced, catTemporal, false
			}
		}
	case ConflictNumeric:
		if present[catNumeric] {
			if coerced, ok := tryCoerceAll(runs, catNumeric, formats); ok {
				return coerced, catNumeric, false
			}
		}
	case ConflictAll:
		if present[catTemporal] {
			if coerced, ok := tryCoerceAll(runs, catTemporal, formats); ok {
				return coerced, catTemporal, false
			}
		} else if present[catNumeric] {
			if coerced, ok := tryCoerceAll(runs, catNumeric, formats); ok {
				return coerced, catNumeric, false
			}
		}
	}

	// ConflictNo, or any of the above paths failed/didn't apply.
	return stringifyAll(runs), catString, strategy != ConflictNo
}

func tryCoerceAll(runs []run, target category, formats []string) ([]run, bool) {
	out := make([]run, len(runs))
	for i, r := range runs {
		coerced, ok := coerce(r, target, formats)
		if !ok {
			return nil, false
		}
		out[i] = coerced
	}
	return out, true
}

func coerce(r run, target category, formats []string) (run, bool) {
	if r.cat == target || r.cat == catNull {
		return r, true
	}
	switch target {
	case catNumeric:
		return coerceToNumeric(r)
	case catTemporal:
		return coerceToTemporal(r, formats)
	}
	return run{}, false
}

func coerceToNumeric(r run) (run, bool) {
	switch r.cat {
	case catString:
		floats := make([]float64, len(r.strs))
		for i, s := range r.strs {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return run{}, false
			}
			floats[i] = v
		}
		return run{cat: catNumeric, floats: floats}, true
	default:
		return run{}, false
	}
}

func coerceToTemporal(r run, formats []string) (run, bool) {
	switch r.cat {
	case catNumeric:
		millis := make([]int64, len(r.floats))
		for i, v := range r.floats {
			millis[i] = dateconv.SerialToUnixMillis(v)
		}
		return run{cat: catTemporal, millis: millis}, true
	case catString:
		layouts := formatsOrDefault(formats)
		millis := make([]int64, len(r.strs))
		for i, s := range r.strs {
			ms, ok := parseTemporalString(s, layouts)
			if !ok {
				return run{}, false
			}
			millis[i] = ms
		}
		return run{cat: catTemporal, millis: millis}, true
	default:
		return run{}, false
	}
}

// parseTemporalString tries each datetime layout in turn, then (the "all"
// strategy's two-step path) falls back to parsing the string as a bare
// float and reinterpreting it as an Excel serial.
func parseTemporalString(s string, layouts []string) (int64, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), true
		}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return dateconv.SerialToUnixMillis(v), true
	}
	return 0, false
}

func formatsOrDefault(formats []string) []string {
	if len(formats) == 0 {
		return []string{defaultISOFormat, "2006-01-02 15:04:05", "2006-01-02"}
	}
	layouts := make([]string, len(formats))
	for i, f := range formats {
		layouts[i] = strftimeToGoLayout(f)
	}
	return layouts
}

// strftimeToGoLayout translates the handful of strftime directives
// datetime_formats is documented to accept into a Go reference-time
// layout. Unrecognized directives pass through unchanged.
func strftimeToGoLayout(pattern string) string {
	replacer := strings.NewReplacer(
		"%Y", "2006", "%y", "06",
		"%m", "01", "%d", "02",
		"%H", "15", "%M", "04", "%S", "05",
	)
	return replacer.Replace(pattern)
}

func stringifyAll(runs []run) []run {
	out := make([]run, len(runs))
	for i, r := range runs {
		out[i] = stringify(r)
	}
	return out
}

func stringify(r run) run {
	switch r.cat {
	case catString, catNull:
		return r
	case catNumeric:
		strs := make([]string, len(r.floats))
		for i, v := range r.floats {
			strs[i] = stringifyNumeric(v)
		}
		return run{cat: catString, strs: strs}
	case catTemporal:
		strs := make([]string, len(r.millis))
		for i, ms := range r.millis {
			strs[i] = stringifyTemporalMs(ms)
		}
		return run{cat: catString, strs: strs}
	default:
		return r
	}
}

func stringifyNumeric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// stringifyTemporalMs renders a millisecond timestamp as a bare date when
// it falls exactly on midnight, and as a date-time otherwise.
func stringifyTemporalMs(ms int64) string {
	t := time.UnixMilli(ms).UTC()
	if ms%86_400_000 == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
