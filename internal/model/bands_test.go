package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmployeeBandFromOriginal(t *testing.T) {
	band, ok := EmployeeBandFromOriginal("11-50")
	assert.True(t, ok)
	assert.Equal(t, EmployeesUpTo50, band)

	_, ok = EmployeeBandFromOriginal("lots")
	assert.False(t, ok)
}

func TestEmployeeBand_RoundTrip(t *testing.T) {
	for _, original := range []string{"1-10", "11-50", "51-100", "101-250", ">250"} {
		band, ok := EmployeeBandFromOriginal(original)
		assert.True(t, ok, original)
		assert.Equal(t, original, band.Original())
	}
}

func TestEmployeeBand_Bounds(t *testing.T) {
	lower, upper := EmployeesOver250.Bounds()
	assert.Equal(t, 251, lower)
	assert.Nil(t, upper, "top band is open-ended")

	lower, upper = EmployeesUpTo50.Bounds()
	assert.Equal(t, 11, lower)
	assert.Equal(t, 50, *upper)
}

func TestTurnoverBandFromOriginal(t *testing.T) {
	band, ok := TurnoverBandFromOriginal(">5 million euros")
	assert.True(t, ok)
	assert.Equal(t, TurnoverOver5M, band)

	_, ok = TurnoverBandFromOriginal("5 billion")
	assert.False(t, ok)
}

func TestTurnoverBand_RoundTrip(t *testing.T) {
	for _, original := range []string{"0-1 million euros", "1-3 million euros", "3-5 million euros", ">5 million euros"} {
		band, ok := TurnoverBandFromOriginal(original)
		assert.True(t, ok, original)
		assert.Equal(t, original, band.Original())
	}
}
