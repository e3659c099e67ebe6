package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysLate(t *testing.T) {
	due := date(2025, time.March, 10)

	assert.Equal(t, 0, DaysLate(due, date(2025, time.March, 10)))
	assert.Equal(t, 1, DaysLate(due, date(2025, time.March, 11)))
	assert.Equal(t, 21, DaysLate(due, date(2025, time.March, 31)))
	assert.Equal(t, -3, DaysLate(due, date(2025, time.March, 7)))
}

func TestDaysLateIgnoresClock(t *testing.T) {
	// jam 23:59 vs 00:01 tetap selisih 1 hari
	due := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	today := time.Date(2025, time.March, 11, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysLate(due, today))
}

func TestAddMonths(t *testing.T) {
	start := date(2025, time.January, 15)
	assert.Equal(t, date(2025, time.April, 15), AddMonths(start, 3))
	assert.Equal(t, date(2025, time.July, 15), AddMonths(start, 6))
}

func TestStatusForExpiry(t *testing.T) {
	today := date(2025, time.June, 1)

	assert.Equal(t, MembershipActive, StatusForExpiry(date(2025, time.June, 1), today), "hari H masih aktif")
	assert.Equal(t, MembershipActive, StatusForExpiry(date(2025, time.June, 2), today))
	assert.Equal(t, MembershipExpired, StatusForExpiry(date(2025, time.May, 31), today))
}
