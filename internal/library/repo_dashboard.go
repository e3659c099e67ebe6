package library

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepo cuma baca; tidak punya invariant sendiri.
type DashboardRepo struct{ DB *pgxpool.Pool }

func (r *DashboardRepo) Stats(ctx context.Context, today time.Time) (DashboardStats, error) {
	var s DashboardStats
	err := r.DB.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM books),
		       (SELECT COUNT(*) FROM customers),
		       (SELECT COUNT(*) FROM loan_copies WHERE status = 'BORROWED'),
		       (SELECT COUNT(*) FROM fines WHERE status = 'UNPAID'),
		       (SELECT COUNT(*) FROM memberships WHERE expiry_date >= $1)`,
		DateOnly(today),
	).Scan(&s.TotalBooks, &s.TotalCustomers, &s.BorrowedCopies, &s.UnpaidFines, &s.ActiveMemberships)
	return s, err
}

func (r *DashboardRepo) Monthly(ctx context.Context, year, month int) (MonthlyReport, error) {
	var rep MonthlyReport
	err := r.DB.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM transactions
		        WHERE EXTRACT(YEAR FROM tx_date) = $1 AND EXTRACT(MONTH FROM tx_date) = $2),
		       (SELECT COALESCE(SUM(amount), 0) FROM transactions
		        WHERE EXTRACT(YEAR FROM tx_date) = $1 AND EXTRACT(MONTH FROM tx_date) = $2),
		       (SELECT COUNT(*) FROM loans
		        WHERE EXTRACT(YEAR FROM loan_date) = $1 AND EXTRACT(MONTH FROM loan_date) = $2),
		       (SELECT COUNT(*) FROM memberships
		        WHERE EXTRACT(YEAR FROM start_date) = $1 AND EXTRACT(MONTH FROM start_date) = $2)`,
		year, month,
	).Scan(&rep.Transactions, &rep.Revenue, &rep.Loans, &rep.NewMemberships)
	return rep, err
}
