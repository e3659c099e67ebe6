package library

import "fmt"

// DefaultFinePerDay dalam rupiah per hari telat; override via FINE_PER_DAY.
const DefaultFinePerDay int64 = 3000

// CalculateFineAmount = daysLate * perDayRate. daysLate negatif adalah bug
// pemanggil (item belum telat tidak boleh sampai ke sini).
func CalculateFineAmount(daysLate int, perDayRate int64) (int64, error) {
	if daysLate < 0 {
		return 0, fmt.Errorf("%w: negative days late %d", ErrInvalidInput, daysLate)
	}
	return int64(daysLate) * perDayRate, nil
}
