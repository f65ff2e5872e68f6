package prepare

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/meddhiazoghlami/xltable/internal/chunk"
	"github.com/meddhiazoghlami/xltable/internal/series"
)

// ColumnJob is one column's series plus its own P3-P5 configuration,
// submitted to Columns for (optionally) parallel preparation.
type ColumnJob struct {
	Name   string
	Series *series.ColumnSeries
	Config Config
}

// Columns runs P1-P5 over every column. Independent columns observe no
// shared state (spec §5), so when parallel is true they run concurrently,
// bounded by GOMAXPROCS via errgroup; the caller-visible result is always
// the same regardless of scheduling since column order is preserved.
func Columns(ctx context.Context, jobs []ColumnJob, lookup chunk.StringLookup, sheet string, parallel bool) ([]Prepared, error) {
	out := make([]Prepared, len(jobs))

	if !parallel {
		for i, j := range jobs {
			p, err := Column(j.Series, j.Config, lookup, sheet, j.Name)
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			p, err := Column(j.Series, j.Config, lookup, sheet, j.Name)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
