package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArea(t *testing.T) {
	for _, want := range Areas() {
		got, err := ParseArea(want.Code())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := ParseArea(" no2 ")
	require.NoError(t, err, "parsing is case-insensitive and trims whitespace")
	assert.Equal(t, NO2, got)

	for _, bad := range []string{"", "NO6", "SE1", "Oslo"} {
		_, err := ParseArea(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestAreaLabels(t *testing.T) {
	assert.Equal(t, "Kristiansand / Sør-Norge", NO2.Label())
	assert.Equal(t, "NO2", NO2.Code())
	assert.Equal(t, "NO2", NO2.String())
	assert.True(t, NO2.Valid())

	var zero PriceArea
	assert.False(t, zero.Valid())
	assert.Equal(t, "PriceArea(0)", zero.String())
}
