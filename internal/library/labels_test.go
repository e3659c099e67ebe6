package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "P001", Label(LabelCustomer, 1))
	assert.Equal(t, "PM042", Label(LabelLoan, 42))
	assert.Equal(t, "D100", Label(LabelFine, 100))
	assert.Equal(t, "M1234", Label(LabelMembership, 1234))
	// transaksi pakai 4 digit
	assert.Equal(t, "T0007", Label(LabelTransaction, 7))
}
