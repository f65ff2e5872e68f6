package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddhiazoghlami/xltable/internal/rowgate"
)

func TestValidate_DefaultIsValid(t *testing.T) {
	assert.NoError(t, Validate(Default(), "Sheet1"))
}

func TestValidate_RejectsShortPerPairList(t *testing.T) {
	o := Default()
	o.RowFilters = []string{"^a$", "^b$", "^c$"}
	o.Strategy = rowgate.StrategyPerPair
	o.PerPair = []rowgate.Strategy{rowgate.StrategyAnd}
	err := Validate(o, "Sheet1")
	require.Error(t, err)
}

func TestValidate_RejectsNegativeSkipRows(t *testing.T) {
	o := Default()
	o.SkipRows = -1
	err := Validate(o, "Sheet1")
	require.Error(t, err)
}
