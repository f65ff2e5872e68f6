package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddhiazoghlami/xltable/internal/cellmodel"
)

func TestRecord_FillsGapsWithBlanks(t *testing.T) {
	s := New()
	s.Record(0, cellmodel.Number(1, false))
	s.Record(3, cellmodel.Number(2, false))
	require.Equal(t, 4, s.Len())

	chunks := s.Chunks()
	require.Len(t, chunks, 3)
	assert.Equal(t, 1, chunks[0].Len())
	assert.Equal(t, 2, chunks[1].Len()) // null run for rows 1,2
	assert.Equal(t, 1, chunks[2].Len())
}

func TestRecord_ExtendsSameShapeChunk(t *testing.T) {
	s := New()
	s.Record(0, cellmodel.Number(1, false))
	s.Record(1, cellmodel.Number(2, false))
	s.Record(2, cellmodel.Number(3, false))
	require.Len(t, s.Chunks(), 1)
	assert.Equal(t, 3, s.Chunks()[0].Len())
}

func TestTruncateTo_MidChunk(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		s.Record(i, cellmodel.Number(float64(i), false))
	}
	s.TruncateTo(3)
	require.Equal(t, 3, s.Len())
	require.Len(t, s.Chunks(), 1)
	assert.Equal(t, []float64{0, 1, 2}, s.Chunks()[0].Floats)
}

func TestTruncateTo_DropsWholeTrailingChunks(t *testing.T) {
	s := New()
	s.Record(0, cellmodel.Number(1, false))
	s.Record(1, cellmodel.InlineString("x"))
	s.Record(2, cellmodel.InlineString("y"))
	s.TruncateTo(1)
	require.Equal(t, 1, s.Len())
	require.Len(t, s.Chunks(), 1)
}

func TestDropRows_CoalescesAdjacentNullRuns(t *testing.T) {
	s := New()
	s.Record(0, cellmodel.Blank)
	s.Record(1, cellmodel.Number(9, false))
	s.Record(2, cellmodel.Blank)

	s.DropRows(map[int]struct{}{1: {}})

	require.Equal(t, 2, s.Len())
	chunks := s.Chunks()
	require.Len(t, chunks, 1)
	assert.Equal(t, cellmodel.ShapeNull, chunks[0].Shape)
	assert.Equal(t, 2, chunks[0].NullCount)
}

func TestDropRows_RemergesSurvivorsOfSameShape(t *testing.T) {
	s := New()
	for i, v := range []float64{10, 20, 30, 40} {
		s.Record(i, cellmodel.Number(v, false))
	}
	s.DropRows(map[int]struct{}{1: {}})

	require.Equal(t, 3, s.Len())
	chunks := s.Chunks()
	require.Len(t, chunks, 1)
	assert.Equal(t, []float64{10, 30, 40}, chunks[0].Floats)
	assert.Equal(t, 0, chunks[0].Origin)
}

func TestDropRows_KeepsDistinctShapesSeparate(t *testing.T) {
	s := New()
	s.Record(0, cellmodel.Number(10, false))
	s.Record(1, cellmodel.InlineString("drop-me"))
	s.Record(2, cellmodel.InlineString("keep"))

	s.DropRows(map[int]struct{}{1: {}})

	require.Equal(t, 2, s.Len())
	chunks := s.Chunks()
	require.Len(t, chunks, 2)
	assert.Equal(t, []float64{10}, chunks[0].Floats)
	assert.Equal(t, []string{"keep"}, chunks[1].Strs)
}

func TestDominantShape_NumericBeatsString(t *testing.T) {
	s := New()
	s.Record(0, cellmodel.Number(1, false))
	s.Record(1, cellmodel.Number(2, false))
	s.Record(2, cellmodel.InlineString("x"))
	shape, temporal := s.DominantShape()
	assert.Equal(t, cellmodel.ShapeF64, shape)
	assert.False(t, temporal)
}

func TestDominantShape_StringBeatsMinorityNumeric(t *testing.T) {
	s := New()
	s.Record(0, cellmodel.Number(1, false))
	s.Record(1, cellmodel.InlineString("x"))
	s.Record(2, cellmodel.InlineString("y"))
	shape, _ := s.DominantShape()
	assert.Equal(t, cellmodel.ShapeInlineStr, shape)
}

func TestDominantShape_TemporalReportedSeparately(t *testing.T) {
	s := New()
	s.Record(0, cellmodel.Number(1, true))
	s.Record(1, cellmodel.Number(2, true))
	shape, temporal := s.DominantShape()
	assert.Equal(t, cellmodel.ShapeF64, shape)
	assert.True(t, temporal)
}
