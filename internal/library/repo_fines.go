package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FineRepo struct{ DB *pgxpool.Pool }

// GenerateAutomatic: satu denda per eksemplar telat, idempoten. Snapshot
// overdue diambil dengan lock di transaksi yang sama, jadi eksemplar yang
// keburu dikembalikan tidak ikut kena. Upsert keyed loan_copy_id; run ulang
// cuma refresh days_late/amount, denda yang sudah PAID tidak disentuh.
func (r *FineRepo) GenerateAutomatic(ctx context.Context, today time.Time, ratePerDay int64) (created, updated int, err error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT lc.id, l.customer_id, l.due_date
		FROM loan_copies lc
		JOIN loans l ON l.id = lc.loan_id
		WHERE lc.status = $1 AND l.due_date < $2
		FOR UPDATE OF lc`,
		CopyBorrowed, DateOnly(today),
	)
	if err != nil {
		return 0, 0, err
	}

	type overdue struct {
		copyID     string
		customerID string
		dueDate    time.Time
	}
	var items []overdue
	for rows.Next() {
		var o overdue
		if err := rows.Scan(&o.copyID, &o.customerID, &o.dueDate); err != nil {
			rows.Close()
			return 0, 0, err
		}
		items = append(items, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}

	for _, o := range items {
		daysLate := DaysLate(o.dueDate, today)
		if daysLate <= 0 {
			continue
		}
		amount, err := CalculateFineAmount(daysLate, ratePerDay)
		if err != nil {
			return 0, 0, err
		}

		// xmax = 0 berarti row baru di-insert, bukan di-update.
		var inserted bool
		err = tx.QueryRow(ctx, `
			INSERT INTO fines(id, loan_copy_id, customer_id, days_late, amount, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (loan_copy_id) DO UPDATE
			SET days_late = EXCLUDED.days_late, amount = EXCLUDED.amount, updated_at = now()
			WHERE fines.status = $6
			RETURNING (xmax = 0)`,
			uuid.NewString(), o.copyID, o.customerID, daysLate, amount, FineUnpaid,
		).Scan(&inserted)
		if errors.Is(err, pgx.ErrNoRows) {
			continue // denda sudah PAID, biarkan
		}
		if err != nil {
			return 0, 0, err
		}
		if inserted {
			created++
		} else {
			updated++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, err
	}
	return created, updated, nil
}

type PayFineResult struct {
	FineID     string `json:"fine_id"`
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"`
	Method     string `json:"method"`
}

// Pay: tandai PAID + append transaksi ledger, satu transaksi. Denda yang
// sudah PAID ditolak tanpa menyentuh ledger.
func (r *FineRepo) Pay(ctx context.Context, fineID, method string, today time.Time) (PayFineResult, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return PayFineResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var res PayFineResult
	var status FineStatus
	err = tx.QueryRow(ctx, `
		SELECT id, customer_id, amount, status FROM fines WHERE id = $1 FOR UPDATE`, fineID,
	).Scan(&res.FineID, &res.CustomerID, &res.Amount, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return PayFineResult{}, fmt.Errorf("fine %s: %w", fineID, ErrNotFound)
	}
	if err != nil {
		return PayFineResult{}, err
	}
	if status == FinePaid {
		return PayFineResult{}, fmt.Errorf("fine %s: %w", fineID, ErrAlreadyPaid)
	}
	res.Method = method

	if _, err := tx.Exec(ctx, `
		UPDATE fines SET status = $2, updated_at = now() WHERE id = $1`,
		fineID, FinePaid,
	); err != nil {
		return PayFineResult{}, err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO transactions(id, customer_id, kind, tx_date, amount, method)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), res.CustomerID, TxFinePayment, DateOnly(today), res.Amount, method,
	); err != nil {
		return PayFineResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return PayFineResult{}, err
	}
	return res, nil
}

func (r *FineRepo) List(ctx context.Context) ([]Fine, error) {
	return r.list(ctx, ``, nil)
}

func (r *FineRepo) ByCustomer(ctx context.Context, customerID string) ([]Fine, error) {
	return r.list(ctx, `WHERE f.customer_id = $1`, []any{customerID})
}

func (r *FineRepo) list(ctx context.Context, where string, args []any) ([]Fine, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT f.id, f.seq, f.loan_copy_id, f.customer_id, c.name,
		       f.days_late, f.amount, f.status, f.created_at, f.updated_at
		FROM fines f
		JOIN customers c ON c.id = f.customer_id
		`+where+`
		ORDER BY f.status, f.amount DESC`, args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Fine
	for rows.Next() {
		var f Fine
		var seq int64
		if err := rows.Scan(&f.ID, &seq, &f.LoanCopyID, &f.CustomerID, &f.CustomerName,
			&f.DaysLate, &f.Amount, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		f.Label = Label(LabelFine, seq)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FineRepo) Stats(ctx context.Context) (FineStats, error) {
	var s FineStats
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'PAID'),
		       COUNT(*) FILTER (WHERE status = 'UNPAID'),
		       COALESCE(SUM(amount), 0),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'PAID'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'UNPAID'), 0)
		FROM fines`,
	).Scan(&s.Total, &s.Paid, &s.Unpaid, &s.TotalAmount, &s.PaidAmount, &s.UnpaidAmount)
	return s, err
}
