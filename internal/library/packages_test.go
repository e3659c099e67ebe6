package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePackage(t *testing.T) {
	p, err := ResolvePackage("3 Bulan")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Months)
	assert.Equal(t, int64(130000), p.Price)

	_, err = ResolvePackage("12 Bulan")
	assert.ErrorIs(t, err, ErrInvalidPackage)
}

func TestPackagesSortedByDuration(t *testing.T) {
	ps := Packages()
	require.Len(t, ps, 3)
	assert.Equal(t, []int{1, 3, 6}, []int{ps[0].Months, ps[1].Months, ps[2].Months})
	assert.Equal(t, int64(50000), ps[0].Price)
	assert.Equal(t, int64(250000), ps[2].Price)
}
