package redisx

import "time"

const (
	// Idempotency create peminjaman: idem:loan:create:{external_id} -> loan_id
	KeyIdemLoanCreate = "idem:loan:create:%s"

	// Cache status peminjaman: loan_status:{loan_id} -> {"status": "..."}
	KeyLoanStatus = "loan_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Feed aktivitas terbaru utk dashboard (LPUSH + LTRIM).
	KeyRecentActivity = "activity:recent"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)

// Panjang maksimum feed aktivitas yang dipertahankan.
const RecentActivityMax = 50
