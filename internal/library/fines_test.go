package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFineAmount(t *testing.T) {
	cases := []struct {
		daysLate int
		rate     int64
		want     int64
	}{
		{0, 3000, 0},
		{1, 3000, 3000},
		{5, 3000, 15000},
		{30, 3000, 90000},
		{2, 5000, 10000},
	}
	for _, c := range cases {
		got, err := CalculateFineAmount(c.daysLate, c.rate)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "daysLate=%d rate=%d", c.daysLate, c.rate)
	}
}

func TestCalculateFineAmountNegative(t *testing.T) {
	_, err := CalculateFineAmount(-1, DefaultFinePerDay)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
