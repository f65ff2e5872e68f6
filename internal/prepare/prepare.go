package prepare

import (
	"math"
	"strconv"
	"time"

	"github.com/meddhiazoghlami/xltable/internal/chunk"
	"github.com/meddhiazoghlami/xltable/internal/series"
	"github.com/meddhiazoghlami/xltable/internal/xerr"
	"github.com/meddhiazoghlami/xltable/internal/xlog"
)

// Config carries the per-column options that drive P3-P5 (spec §4.5, §6).
type Config struct {
	FloatPrecision   *int
	DatetimeFormats  []string
	ConflictStrategy ConflictStrategy
	DType            *DType // P5 user override, if any
}

// Column runs P1-P5 over one sealed column series and returns its final
// homogeneous array. sheet/name are used only for error/log context.
func Column(s *series.ColumnSeries, cfg Config, lookup chunk.StringLookup, sheet, name string) (Prepared, error) {
	runs, err := normalizeChunks(s.Chunks(), lookup)
	if err != nil {
		return Prepared{}, xerr.New(xerr.KindFormat, sheet, "preparing column "+name).Wrap(err)
	}

	present := presentCategories(runs)
	distinct := len(present)

	finalCat := catNull
	for c := range present {
		finalCat = c
	}

	if distinct >= 2 {
		resolved, cat, fellBack := resolveConflict(runs, cfg.ConflictStrategy, cfg.DatetimeFormats)
		if fellBack {
			xlog.Get().Warn().Str("sheet", sheet).Str("column", name).
				Int("strategy", int(cfg.ConflictStrategy)).
				Msg("conflict resolution fell back to string for column")
		}
		runs = resolved
		finalCat = cat
	}

	prepared := materialize(runs, finalCat, s.Len())

	if cfg.FloatPrecision != nil && finalCat == catNumeric && distinct < 2 {
		prepared = narrow(prepared, *cfg.FloatPrecision)
	}

	if cfg.DType != nil {
		cast, err := castTo(prepared, *cfg.DType)
		if err != nil {
			return Prepared{}, xerr.New(xerr.KindDTypeCast, sheet, "column "+name).Wrap(err)
		}
		prepared = cast
	}

	return prepared, nil
}

// materialize concatenates runs in order into one typed array of the given
// final category, filling null positions for catNull runs (and for any run
// that doesn't match finalCat, defensively — resolveConflict guarantees
// this cannot happen outside catNull).
func materialize(runs []run, finalCat category, totalLen int) Prepared {
	switch finalCat {
	case catNumeric:
		p := Prepared{Type: Float64, Length: totalLen, Floats: make([]float64, 0, totalLen), Valid: make([]bool, 0, totalLen)}
		for _, r := range runs {
			if r.cat == catNumeric {
				p.Floats = append(p.Floats, r.floats...)
				p.Valid = append(p.Valid, trueSlice(len(r.floats))...)
			} else {
				p.Floats = append(p.Floats, make([]float64, r.length())...)
				p.Valid = append(p.Valid, falseSlice(r.length())...)
			}
		}
		return p
	case catTemporal:
		p := Prepared{Type: TimestampMs, Length: totalLen, Millis: make([]int64, 0, totalLen), Valid: make([]bool, 0, totalLen)}
		for _, r := range runs {
			if r.cat == catTemporal {
				p.Millis = append(p.Millis, r.millis...)
				p.Valid = append(p.Valid, trueSlice(len(r.millis))...)
			} else {
				p.Millis = append(p.Millis, make([]int64, r.length())...)
				p.Valid = append(p.Valid, falseSlice(r.length())...)
			}
		}
		return p
	case catString:
		p := Prepared{Type: String, Length: totalLen, Strs: make([]string, 0, totalLen), Valid: make([]bool, 0, totalLen)}
		for _, r := range runs {
			if r.cat == catString {
				p.Strs = append(p.Strs, r.strs...)
				p.Valid = append(p.Valid, trueSlice(len(r.strs))...)
			} else {
				p.Strs = append(p.Strs, make([]string, r.length())...)
				p.Valid = append(p.Valid, falseSlice(r.length())...)
			}
		}
		return p
	default:
		return Prepared{Type: Null, Length: totalLen, Valid: falseSlice(totalLen)}
	}
}

func trueSlice(n int) []bool {
	s := make([]bool, n)
	for i := range s {
		s[i] = true
	}
	return s
}

func falseSlice(n int) []bool {
	return make([]bool, n)
}

// narrow implements P3: a pure numeric column whose every value equals
// itself rounded to precision decimals becomes Int64.
func narrow(p Prepared, precision int) Prepared {
	if p.Type != Float64 {
		return p
	}
	scale := math.Pow(10, float64(precision))
	ints := make([]int64, len(p.Floats))
	for i, v := range p.Floats {
		if !p.Valid[i] {
			continue
		}
		rounded := math.Round(v*scale) / scale
		if rounded != v {
			return p
		}
		ints[i] = int64(math.Round(v))
	}
	return Prepared{Type: Int64, Length: p.Length, Ints: ints, Valid: p.Valid}
}

// castTo implements P5: casting the resolved column to a caller-specified
// dtype. Failure is fatal (DTypeCastError), unlike P4's recovered fallback.
func castTo(p Prepared, want DType) (Prepared, error) {
	if p.Type == want || p.Type == Null {
		if p.Type == Null {
			return relabelNull(p, want), nil
		}
		return p, nil
	}

	switch want {
	case Float64:
		return castToFloat(p)
	case Int64:
		return castToInt(p)
	case TimestampMs:
		return castToTimestamp(p)
	case String:
		return castToString(p), nil
	default:
		return p, nil
	}
}

func relabelNull(p Prepared, want DType) Prepared {
	return Prepared{Type: want, Length: p.Length, Valid: p.Valid}
}

func castToFloat(p Prepared) (Prepared, error) {
	out := make([]float64, p.Length)
	switch p.Type {
	case Int64:
		for i, v := range p.Ints {
			out[i] = float64(v)
		}
	case TimestampMs:
		for i, v := range p.Millis {
			out[i] = float64(v)
		}
	case String:
		for i, s := range p.Strs {
			if !p.Valid[i] {
				continue
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Prepared{}, err
			}
			out[i] = v
		}
	}
	return Prepared{Type: Float64, Length: p.Length, Floats: out, Valid: p.Valid}, nil
}

func castToInt(p Prepared) (Prepared, error) {
	out := make([]int64, p.Length)
	switch p.Type {
	case Float64:
		for i, v := range p.Floats {
			out[i] = int64(v)
		}
	case TimestampMs:
		copy(out, p.Millis)
	case String:
		for i, s := range p.Strs {
			if !p.Valid[i] {
				continue
			}
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				f, ferr := strconv.ParseFloat(s, 64)
				if ferr != nil {
					return Prepared{}, err
				}
				v = int64(f)
			}
			out[i] = v
		}
	}
	return Prepared{Type: Int64, Length: p.Length, Ints: out, Valid: p.Valid}, nil
}

func castToTimestamp(p Prepared) (Prepared, error) {
	out := make([]int64, p.Length)
	switch p.Type {
	case Float64:
		for i, v := range p.Floats {
			out[i] = time.UnixMilli(int64(v)).UnixMilli()
		}
	case Int64:
		copy(out, p.Ints)
	case String:
		layouts := formatsOrDefault(nil)
		for i, s := range p.Strs {
			if !p.Valid[i] {
				continue
			}
			ms, ok := parseTemporalString(s, layouts)
			if !ok {
				return Prepared{}, errCast(s)
			}
			out[i] = ms
		}
	}
	return Prepared{Type: TimestampMs, Length: p.Length, Millis: out, Valid: p.Valid}, nil
}

func castToString(p Prepared) Prepared {
	out := make([]string, p.Length)
	switch p.Type {
	case Float64:
		for i, v := range p.Floats {
			if p.Valid[i] {
				out[i] = stringifyNumeric(v)
			}
		}
	case Int64:
		for i, v := range p.Ints {
			if p.Valid[i] {
				out[i] = strconv.FormatInt(v, 10)
			}
		}
	case TimestampMs:
		for i, v := range p.Millis {
			if p.Valid[i] {
				out[i] = stringifyTemporalMs(v)
			}
		}
	}
	return Prepared{Type: String, Length: p.Length, Strs: out, Valid: p.Valid}
}

type castError string

func (e castError) Error() string { return string(e) }

func errCast(s string) error {
	return castError("cannot parse " + strconv.Quote(s) + " as timestamp")
}
