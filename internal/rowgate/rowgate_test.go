package rowgate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddhiazoghlami/xltable/internal/cellmodel"
	"github.com/meddhiazoghlami/xltable/internal/xerr"
)

func row(vals map[int]cellmodel.RawCell) map[int]cellmodel.RawCell { return vals }

func TestNew_RejectsPatternMatchingNoColumn(t *testing.T) {
	_, err := New(Config{FilterPatterns: []string{"^zzz$"}}, "Sheet1", []string{"id", "name"})
	require.Error(t, err)
	var xe *xerr.Error
	require.ErrorAs(t, err, &xe)
	assert.Equal(t, xerr.KindConfig, xe.Kind)
}

func TestNew_RejectsShortPerPairList(t *testing.T) {
	_, err := New(Config{
		FilterPatterns: []string{"^a$", "^b$", "^c$"},
		Strategy:       StrategyPerPair,
		PerPairStrategies: []Strategy{
			StrategyAnd,
		},
	}, "Sheet1", []string{"a", "b", "c"})
	require.Error(t, err)
}

func TestDecide_DefaultGateDropsBlankOnlyRows(t *testing.T) {
	g, err := New(Config{}, "Sheet1", []string{"a"})
	require.NoError(t, err)
	assert.False(t, g.Decide(row(map[int]cellmodel.RawCell{0: cellmodel.Blank})))
	assert.True(t, g.Decide(row(map[int]cellmodel.RawCell{0: cellmodel.Number(1, false)})))
}

func TestDecide_KeepEmptyAdmitsBlankRows(t *testing.T) {
	g, err := New(Config{KeepEmpty: true}, "Sheet1", []string{"a"})
	require.NoError(t, err)
	assert.True(t, g.Decide(row(map[int]cellmodel.RawCell{0: cellmodel.Blank})))
}

func TestDecide_AndStrategy(t *testing.T) {
	g, err := New(Config{
		FilterPatterns: []string{"^R$", "^C$"},
		Strategy:       StrategyAnd,
	}, "Sheet1", []string{"R", "C"})
	require.NoError(t, err)

	bothPresent := row(map[int]cellmodel.RawCell{0: cellmodel.Number(1, false), 1: cellmodel.Number(2, false)})
	onlyR := row(map[int]cellmodel.RawCell{0: cellmodel.Number(1, false), 1: cellmodel.Blank})

	assert.True(t, g.Decide(bothPresent))
	assert.False(t, g.Decide(onlyR))
}

func TestDecide_OrStrategy(t *testing.T) {
	g, err := New(Config{
		FilterPatterns: []string{"^R$", "^C$"},
		Strategy:       StrategyOr,
	}, "Sheet1", []string{"R", "C"})
	require.NoError(t, err)

	onlyR := row(map[int]cellmodel.RawCell{0: cellmodel.Number(1, false), 1: cellmodel.Blank})
	neither := row(map[int]cellmodel.RawCell{0: cellmodel.Blank, 1: cellmodel.Blank})

	assert.True(t, g.Decide(onlyR))
	assert.False(t, g.Decide(neither))
}

func TestDecide_RespectsTakeLimit(t *testing.T) {
	limit := 2
	g, err := New(Config{TakeLimit: &limit}, "Sheet1", []string{"a"})
	require.NoError(t, err)

	cell := cellmodel.Number(1, false)
	assert.True(t, g.Decide(row(map[int]cellmodel.RawCell{0: cell})))
	assert.True(t, g.Decide(row(map[int]cellmodel.RawCell{0: cell})))
	assert.True(t, g.Done())
	assert.False(t, g.Decide(row(map[int]cellmodel.RawCell{0: cell})))
}
