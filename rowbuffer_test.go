package xltable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddhiazoghlami/xltable/internal/cellmodel"
	"github.com/meddhiazoghlami/xltable/internal/chunk"
)

// fakeRowStream replays a fixed slice of rows, for testing rowBuffer
// without a real workbook.
type fakeRowStream struct {
	rows []map[int]cellmodel.RawCell
	pos  int
}

func (f *fakeRowStream) Next() (int, map[int]cellmodel.RawCell, bool, error) {
	if f.pos >= len(f.rows) {
		return 0, nil, false, nil
	}
	row := f.rows[f.pos]
	idx := f.pos
	f.pos++
	return idx, row, true, nil
}

func (f *fakeRowStream) Strings() chunk.StringLookup { return nil }

func (f *fakeRowStream) Close() error { return nil }

func cellsAt(vals ...cellmodel.RawCell) map[int]cellmodel.RawCell {
	out := map[int]cellmodel.RawCell{}
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func TestRowBuffer_PeekThenBodyRowsReplaysBufferedPrefix(t *testing.T) {
	rows := []map[int]cellmodel.RawCell{
		cellsAt(cellmodel.InlineString("id")),
		cellsAt(cellmodel.InlineString("1")),
		cellsAt(cellmodel.InlineString("2")),
	}
	rs := &fakeRowStream{rows: rows}
	buf := newRowBuffer(rs, 0)

	cells, ok, err := buf.peek(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "id", cells[0].Str)

	next := buf.bodyRows(1)
	_, cells, ok, err = next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", cells[0].Str)

	_, cells, ok, err = next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2", cells[0].Str)

	_, _, ok, err = next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRowBuffer_SkipRowsAppliedOnce(t *testing.T) {
	rows := []map[int]cellmodel.RawCell{
		cellsAt(cellmodel.InlineString("skip me")),
		cellsAt(cellmodel.InlineString("header")),
		cellsAt(cellmodel.InlineString("body")),
	}
	rs := &fakeRowStream{rows: rows}
	buf := newRowBuffer(rs, 1)

	cells, ok, err := buf.peek(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "header", cells[0].Str)

	next := buf.bodyRows(1)
	_, cells, ok, err = next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "body", cells[0].Str)
}
