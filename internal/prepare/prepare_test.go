package prepare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddhiazoghlami/xltable/internal/cellmodel"
	"github.com/meddhiazoghlami/xltable/internal/series"
)

func intp(v int) *int { return &v }

func TestColumn_RoundTrip1_PureIntegers(t *testing.T) {
	s := series.New()
	for i, v := range []float64{1, 2, 3} {
		s.Record(i, cellmodel.Number(v, false))
	}
	p, err := Column(s, Config{FloatPrecision: intp(0)}, nil, "Sheet1", "id")
	require.NoError(t, err)
	assert.Equal(t, Int64, p.Type)
	assert.Equal(t, []int64{1, 2, 3}, p.Ints)
}

func TestColumn_RoundTrip2_TemporalSerial(t *testing.T) {
	s := series.New()
	s.Record(0, cellmodel.Number(44927.0, true))
	p, err := Column(s, Config{}, nil, "Sheet1", "ts")
	require.NoError(t, err)
	assert.Equal(t, TimestampMs, p.Type)
	assert.Equal(t, int64(1_672_531_200_000), p.Millis[0])
}

func TestColumn_NullPreservation(t *testing.T) {
	s := series.New()
	s.Record(0, cellmodel.Blank)
	s.Record(1, cellmodel.Blank)
	s.Record(2, cellmodel.Blank)
	p, err := Column(s, Config{}, nil, "Sheet1", "empty")
	require.NoError(t, err)
	assert.Equal(t, Null, p.Type)
	assert.Equal(t, 3, p.Length)
	for _, v := range p.Valid {
		assert.False(t, v)
	}
}

func TestColumn_ConflictTemporal_FallsBackOnUnparsableString(t *testing.T) {
	s := series.New()
	s.Record(0, cellmodel.Number(44927.0, true))
	s.Record(1, cellmodel.Number(44928.5, true))
	s.Record(2, cellmodel.Blank)
	s.Record(3, cellmodel.InlineString("not a date"))

	p, err := Column(s, Config{ConflictStrategy: ConflictTemporal, DatetimeFormats: []string{"%Y-%m-%d"}}, nil, "Sheet1", "ts")
	require.NoError(t, err)
	require.Equal(t, String, p.Type)
	assert.Equal(t, "2023-01-01", p.Strs[0])
	assert.Equal(t, "2023-01-02 12:00:00", p.Strs[1])
	assert.False(t, p.Valid[2])
	assert.Equal(t, "not a date", p.Strs[3])
}

func TestColumn_ConflictNumeric_CoercesParsableStrings(t *testing.T) {
	s := series.New()
	for i, v := range []float64{1, 2, 3, 4} {
		s.Record(i, cellmodel.Number(v, false))
	}
	s.Record(4, cellmodel.InlineString("5.5"))

	p, err := Column(s, Config{ConflictStrategy: ConflictNumeric}, nil, "Sheet1", "mixed")
	require.NoError(t, err)
	require.Equal(t, Float64, p.Type)
	assert.Equal(t, []float64{1, 2, 3, 4, 5.5}, p.Floats)
	for _, v := range p.Valid {
		assert.True(t, v)
	}
}

func TestColumn_DTypeOverrideCastsSuccessfully(t *testing.T) {
	s := series.New()
	for i, v := range []float64{1, 2, 3} {
		s.Record(i, cellmodel.Number(v, false))
	}
	want := String
	p, err := Column(s, Config{DType: &want}, nil, "Sheet1", "id")
	require.NoError(t, err)
	assert.Equal(t, String, p.Type)
	assert.Equal(t, []string{"1", "2", "3"}, p.Strs)
}

func TestColumn_DTypeOverrideFailureIsFatal(t *testing.T) {
	s := series.New()
	s.Record(0, cellmodel.InlineString("not-a-number"))
	want := Float64
	_, err := Column(s, Config{DType: &want}, nil, "Sheet1", "bad")
	require.Error(t, err)
}

func TestColumn_SkipsNarrowingWithoutFloatPrecision(t *testing.T) {
	s := series.New()
	for i, v := range []float64{1, 2, 3} {
		s.Record(i, cellmodel.Number(v, false))
	}
	p, err := Column(s, Config{}, nil, "Sheet1", "id")
	require.NoError(t, err)
	assert.Equal(t, Float64, p.Type)
}
