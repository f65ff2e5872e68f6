package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddhiazoghlami/xltable/internal/cellmodel"
)

func TestCanExtend_SameShapeSameTemporal(t *testing.T) {
	c := New(cellmodel.ShapeF64, true, 0)
	assert.True(t, c.CanExtend(cellmodel.ShapeF64, true))
	assert.False(t, c.CanExtend(cellmodel.ShapeF64, false))
	assert.False(t, c.CanExtend(cellmodel.ShapeInlineStr, false))
}

func TestAppend_ExtendsMatchingShape(t *testing.T) {
	c := New(cellmodel.ShapeF64, false, 3)
	c.Append(cellmodel.Number(1.5, false))
	c.Append(cellmodel.Number(2.5, false))
	require.Equal(t, 2, c.Len())
	assert.Equal(t, []float64{1.5, 2.5}, c.Floats)
	assert.Equal(t, 3, c.Origin)
}

func TestAppend_PanicsOnShapeMismatch(t *testing.T) {
	c := New(cellmodel.ShapeF64, false, 0)
	assert.Panics(t, func() {
		c.Append(cellmodel.InlineString("x"))
	})
}

func TestAppend_BooleanAndErrorCollapseToInlineStr(t *testing.T) {
	c := New(cellmodel.ShapeInlineStr, false, 0)
	c.Append(cellmodel.Boolean(true))
	c.Append(cellmodel.ErrorCode(0x07))
	require.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"TRUE", "#DIV/0!"}, c.Strs)
}

func TestBlankDoesNotExtendNonNullChunk(t *testing.T) {
	c := New(cellmodel.ShapeF64, false, 0)
	shape, _ := cellmodel.ShapeOf(cellmodel.Blank)
	assert.False(t, c.CanExtend(shape, false))
}

func TestTruncateTo(t *testing.T) {
	c := New(cellmodel.ShapeF64, false, 0)
	c.Append(cellmodel.Number(1, false))
	c.Append(cellmodel.Number(2, false))
	c.Append(cellmodel.Number(3, false))
	c.TruncateTo(1)
	assert.Equal(t, []float64{1}, c.Floats)
}

func TestSlice(t *testing.T) {
	c := New(cellmodel.ShapeInlineStr, false, 10)
	for _, s := range []string{"a", "b", "c", "d"} {
		c.Append(cellmodel.InlineString(s))
	}
	sub := c.Slice(1, 3)
	assert.Equal(t, []string{"b", "c"}, sub.Strs)
	assert.Equal(t, 11, sub.Origin)
}

func TestExpand_Rk32ToF64(t *testing.T) {
	c := New(cellmodel.ShapeRk32, false, 0)
	c.Append(cellmodel.RkNumber(0)) // encodes 0.0
	c.Append(cellmodel.RkNumber(6)) // (1<<2)|0x02: signed int bit set, shifted value 1
	exp, err := c.Expand(nil)
	require.NoError(t, err)
	require.Equal(t, ExpandedF64, exp.Shape)
	require.Len(t, exp.Floats, 2)
	assert.Equal(t, 0.0, exp.Floats[0])
	assert.Equal(t, 1.0, exp.Floats[1])
}

func TestExpand_SharedIdxToStr(t *testing.T) {
	c := New(cellmodel.ShapeSharedIdx, false, 0)
	c.Append(cellmodel.SharedStringRef(2))
	table := []string{"zero", "one", "two"}
	exp, err := c.Expand(func(idx uint64) (string, error) { return table[idx], nil })
	require.NoError(t, err)
	require.Equal(t, ExpandedStr, exp.Shape)
	assert.Equal(t, []string{"two"}, exp.Strs)
}

func TestExpand_SharedIdxWithoutLookupErrors(t *testing.T) {
	c := New(cellmodel.ShapeSharedIdx, false, 0)
	c.Append(cellmodel.SharedStringRef(0))
	_, err := c.Expand(nil)
	assert.Error(t, err)
}

func TestExpand_NullKeepsCount(t *testing.T) {
	c := New(cellmodel.ShapeNull, false, 5)
	c.AppendNulls(3)
	exp, err := c.Expand(nil)
	require.NoError(t, err)
	assert.Equal(t, ExpandedNull, exp.Shape)
	assert.Equal(t, 3, exp.NullCount)
	assert.Equal(t, 5, exp.Origin)
}

// Chunk invariant (spec §8): no two adjacent chunks in a sealed column ever
// share both storage shape and temporal flag — if they did, they should
// have been one chunk. This simulates the series-level sealing decision a
// column builder makes cell by cell.
func TestChunkInvariant_AdjacentChunksNeverMergeable(t *testing.T) {
	cells := []cellmodel.RawCell{
		cellmodel.Number(1, false),
		cellmodel.Number(2, false),
		cellmodel.Number(3, true), // same shape, different temporal flag
		cellmodel.InlineString("x"),
		cellmodel.Blank,
		cellmodel.Blank,
		cellmodel.Number(4, true),
	}

	var chunks []*Chunk
	var cur *Chunk
	for i, cell := range cells {
		shape, temporal := cellmodel.ShapeOf(cell)
		if cur == nil || !cur.CanExtend(shape, temporal) {
			cur = New(shape, temporal, i)
			chunks = append(chunks, cur)
		}
		cur.Append(cell)
	}

	require.Len(t, chunks, 5)
	for i := 1; i < len(chunks); i++ {
		prev, next := chunks[i-1], chunks[i]
		assert.False(t, prev.Shape == next.Shape && prev.Temporal == next.Temporal,
			"adjacent chunks %d and %d should have merged", i-1, i)
	}
}
