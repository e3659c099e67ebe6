package library

import "time"

// DateOnly memotong ke tengah malam UTC; semua tanggal domain (loan_date,
// due_date, expiry_date) dibandingkan sebagai tanggal, bukan timestamp.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysLate = today - due dalam hari utuh (floor). <= 0 berarti belum telat.
func DaysLate(due, today time.Time) int {
	return int(DateOnly(today).Sub(DateOnly(due)).Hours() / 24)
}

func AddMonths(d time.Time, months int) time.Time {
	return DateOnly(d).AddDate(0, months, 0)
}

// StatusForExpiry: expiry >= today -> ACTIVE, selain itu EXPIRED.
// Selalu dihitung saat baca, tidak pernah disimpan sebagai flag.
func StatusForExpiry(expiry, today time.Time) MembershipStatus {
	if !DateOnly(expiry).Before(DateOnly(today)) {
		return MembershipActive
	}
	return MembershipExpired
}
