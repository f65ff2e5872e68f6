package header

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddhiazoghlami/xltable/internal/xerr"
)

func TestResolve_Explicit(t *testing.T) {
	res, err := Resolve(Spec{Kind: Explicit, Names: []string{"a", "b"}}, nil, 0, nil, 2, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, res.Names)
	assert.Equal(t, 0, res.RowsUsed)
}

func TestResolve_ExplicitMismatchFails(t *testing.T) {
	_, err := Resolve(Spec{Kind: Explicit, Names: []string{"a"}}, nil, 0, nil, 2, "Sheet1")
	require.Error(t, err)
	var xe *xerr.Error
	require.ErrorAs(t, err, &xe)
	assert.Equal(t, xerr.KindHeaderMismatch, xe.Kind)
}

func TestResolve_Absent(t *testing.T) {
	res, err := Resolve(Spec{Kind: Absent}, nil, 0, nil, 3, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Unnamed: 0", "Unnamed: 1", "Unnamed: 2"}, res.Names)
}

func TestResolve_PresentSingleRow(t *testing.T) {
	rows := []map[int]string{
		{0: "id", 1: "name"},
	}
	peek := func(i int) (map[int]string, bool) {
		if i >= len(rows) {
			return nil, false
		}
		return rows[i], true
	}
	res, err := Resolve(Spec{Kind: Present, Rows: 1}, nil, 30, peek, 2, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, res.Names)
	assert.Equal(t, 1, res.RowsUsed)
}

func TestResolve_PresentWithLookupHeadPattern(t *testing.T) {
	rows := []map[int]string{
		{0: "report"},
		{0: "generated 2024-01-01"},
		{0: "id", 1: "ts"},
	}
	peek := func(i int) (map[int]string, bool) {
		if i >= len(rows) {
			return nil, false
		}
		return rows[i], true
	}
	lookup := &Lookup{Pattern: regexp.MustCompile("^ts$")}
	res, err := Resolve(Spec{Kind: Present, Rows: 1}, lookup, 5, peek, 2, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "ts"}, res.Names)
	assert.Equal(t, 3, res.RowsUsed)
}

func TestResolve_LookupHeadExhaustedFails(t *testing.T) {
	rows := []map[int]string{
		{0: "a"}, {0: "b"}, {0: "c"},
	}
	peek := func(i int) (map[int]string, bool) {
		if i >= len(rows) {
			return nil, false
		}
		return rows[i], true
	}
	lookup := &Lookup{Pattern: regexp.MustCompile("^nomatch$")}
	_, err := Resolve(Spec{Kind: Present, Rows: 1}, lookup, 3, peek, 1, "Sheet1")
	require.Error(t, err)
	var xe *xerr.Error
	require.ErrorAs(t, err, &xe)
	assert.Equal(t, xerr.KindHeaderLookup, xe.Kind)
}

func TestResolve_MultiRowHeaderHorizontalFill(t *testing.T) {
	rows := []map[int]string{
		{0: "A", 2: "C"},
		{0: "x", 1: "y", 2: "z"},
	}
	peek := func(i int) (map[int]string, bool) {
		if i >= len(rows) {
			return nil, false
		}
		return rows[i], true
	}
	res, err := Resolve(Spec{Kind: Present, Rows: 2}, nil, 30, peek, 3, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A, x", "A, y", "C, z"}, res.Names)
	assert.Equal(t, 2, res.RowsUsed)
}

func TestResolve_LookupHeadColumnIndex(t *testing.T) {
	rows := []map[int]string{
		{0: ""},
		{0: "", 1: "marker"},
	}
	peek := func(i int) (map[int]string, bool) {
		if i >= len(rows) {
			return nil, false
		}
		return rows[i], true
	}
	idx := 1
	lookup := &Lookup{ColIndex: &idx}
	res, err := Resolve(Spec{Kind: Present, Rows: 1}, lookup, 5, peek, 2, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.RowsUsed)
	assert.Equal(t, "marker", res.Names[1])
}
