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

type LoanRepo struct{ DB *pgxpool.Pool }

type OpenLoanParams struct {
	ExternalID string
	CustomerID string
	ISBNs      []string
	LoanDate   time.Time
	BorrowDays int
}

// Open: idempotent via external_id. Due date dihitung server-side
// (loan_date + BorrowDays); stok dikunci per buku (FOR UPDATE), dicek,
// baru dikurangi. Semua write satu transaksi: kurang stok tanpa eksemplar
// tercatat (atau sebaliknya) tidak boleh kejadian.
func (r *LoanRepo) Open(ctx context.Context, p OpenLoanParams) (Loan, bool, error) {
	if p.ExternalID != "" {
		var existingID string
		err := r.DB.QueryRow(ctx, `SELECT id FROM loans WHERE external_id=$1`, p.ExternalID).Scan(&existingID)
		if err == nil {
			l, err := r.Get(ctx, existingID)
			return l, true, err
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, false, err
		}
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Loan{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var customerExists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id=$1)`, p.CustomerID).Scan(&customerExists); err != nil {
		return Loan{}, false, err
	}
	if !customerExists {
		return Loan{}, false, fmt.Errorf("customer %s: %w", p.CustomerID, ErrNotFound)
	}

	loanDate := DateOnly(p.LoanDate)
	dueDate := loanDate.AddDate(0, 0, p.BorrowDays)
	loanID := uuid.NewString()

	var extID any
	if p.ExternalID != "" {
		extID = p.ExternalID
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO loans(id, external_id, customer_id, loan_date, due_date)
		VALUES ($1, $2, $3, $4, $5)`,
		loanID, extID, p.CustomerID, loanDate, dueDate,
	); err != nil {
		return Loan{}, false, err
	}

	for _, isbn := range p.ISBNs {
		var stock int
		var active bool
		err := tx.QueryRow(ctx, `SELECT stock, active FROM books WHERE isbn=$1 FOR UPDATE`, isbn).Scan(&stock, &active)
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, false, fmt.Errorf("book %s: %w", isbn, ErrNotFound)
		}
		if err != nil {
			return Loan{}, false, err
		}
		if !active || stock <= 0 {
			return Loan{}, false, fmt.Errorf("book %s: %w", isbn, ErrOutOfStock)
		}

		if _, err := tx.Exec(ctx, `UPDATE books SET stock = stock - 1, updated_at = now() WHERE isbn=$1`, isbn); err != nil {
			return Loan{}, false, err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO loan_copies(id, loan_id, isbn, status)
			VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), loanID, isbn, CopyBorrowed,
		); err != nil {
			return Loan{}, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Loan{}, false, err
	}

	l, err := r.Get(ctx, loanID)
	return l, false, err
}

type ReturnResult struct {
	CopyID     string `json:"copy_id"`
	LoanID     string `json:"loan_id"`
	CustomerID string `json:"customer_id"`
	ISBN       string `json:"isbn"`
}

// Return mengembalikan SATU eksemplar. Eksemplar yang sudah kembali ditolak
// dengan ErrAlreadyReturned (bukan no-op) supaya client yang basi sadar.
// Ketersediaan buku turunan dari stok, jadi "flip ke Tersedia" otomatis.
func (r *LoanRepo) Return(ctx context.Context, copyID string) (ReturnResult, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return ReturnResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var res ReturnResult
	var status CopyStatus
	err = tx.QueryRow(ctx, `
		SELECT lc.id, lc.loan_id, lc.isbn, lc.status, l.customer_id
		FROM loan_copies lc
		JOIN loans l ON l.id = lc.loan_id
		WHERE lc.id = $1
		FOR UPDATE OF lc`, copyID,
	).Scan(&res.CopyID, &res.LoanID, &res.ISBN, &status, &res.CustomerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ReturnResult{}, fmt.Errorf("loan copy %s: %w", copyID, ErrNotFound)
	}
	if err != nil {
		return ReturnResult{}, err
	}
	if status == CopyReturned {
		return ReturnResult{}, fmt.Errorf("loan copy %s: %w", copyID, ErrAlreadyReturned)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE loan_copies SET status = $2, returned_at = now() WHERE id = $1`,
		copyID, CopyReturned,
	); err != nil {
		return ReturnResult{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE books SET stock = stock + 1, updated_at = now() WHERE isbn = $1`, res.ISBN); err != nil {
		return ReturnResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ReturnResult{}, err
	}
	return res, nil
}

// ResolveOpenCopy: terjemahkan id peminjaman ke id eksemplar, hanya jika
// tidak ambigu. Lebih dari satu eksemplar keluar -> caller wajib kirim copy_id.
func (r *LoanRepo) ResolveOpenCopy(ctx context.Context, loanID string) (string, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id FROM loan_copies WHERE loan_id = $1 AND status = $2`,
		loanID, CopyBorrowed,
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(ids) {
	case 1:
		return ids[0], nil
	case 0:
		var exists bool
		if err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM loans WHERE id=$1)`, loanID).Scan(&exists); err != nil {
			return "", err
		}
		if !exists {
			return "", fmt.Errorf("loan %s: %w", loanID, ErrNotFound)
		}
		return "", fmt.Errorf("loan %s: %w", loanID, ErrAlreadyReturned)
	default:
		return "", fmt.Errorf("loan %s: %w", loanID, ErrAmbiguousReturn)
	}
}

// ListOverdue: eksemplar BORROWED dengan due date < today. Read-only,
// dipakai Fine Engine dan endpoint /loans/overdue.
func (r *LoanRepo) ListOverdue(ctx context.Context, today time.Time) ([]OverdueCopy, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT lc.id, lc.loan_id, l.customer_id, c.name, lc.isbn, b.title, l.due_date
		FROM loan_copies lc
		JOIN loans l ON l.id = lc.loan_id
		JOIN customers c ON c.id = l.customer_id
		JOIN books b ON b.isbn = lc.isbn
		WHERE lc.status = $1 AND l.due_date < $2
		ORDER BY l.due_date ASC`,
		CopyBorrowed, DateOnly(today),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OverdueCopy
	for rows.Next() {
		var o OverdueCopy
		if err := rows.Scan(&o.CopyID, &o.LoanID, &o.CustomerID, &o.CustomerName, &o.ISBN, &o.Title, &o.DueDate); err != nil {
			return nil, err
		}
		o.DaysLate = DaysLate(o.DueDate, today)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *LoanRepo) Get(ctx context.Context, loanID string) (Loan, error) {
	var l Loan
	var seq int64
	var extID *string
	err := r.DB.QueryRow(ctx, `
		SELECT l.id, l.seq, l.external_id, l.customer_id, c.name, l.loan_date, l.due_date
		FROM loans l
		JOIN customers c ON c.id = l.customer_id
		WHERE l.id = $1`, loanID,
	).Scan(&l.ID, &seq, &extID, &l.CustomerID, &l.CustomerName, &l.LoanDate, &l.DueDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, fmt.Errorf("loan %s: %w", loanID, ErrNotFound)
	}
	if err != nil {
		return Loan{}, err
	}
	l.Label = Label(LabelLoan, seq)
	if extID != nil {
		l.ExternalID = *extID
	}

	rows, err := r.DB.Query(ctx, `
		SELECT lc.id, lc.seq, lc.isbn, b.title, lc.status, lc.returned_at
		FROM loan_copies lc
		JOIN books b ON b.isbn = lc.isbn
		WHERE lc.loan_id = $1
		ORDER BY lc.seq`, loanID,
	)
	if err != nil {
		return Loan{}, err
	}
	defer rows.Close()

	l.Status = CopyReturned
	for rows.Next() {
		var c LoanCopy
		var cseq int64
		if err := rows.Scan(&c.ID, &cseq, &c.ISBN, &c.Title, &c.Status, &c.ReturnedAt); err != nil {
			return Loan{}, err
		}
		c.Label = Label(LabelCopy, cseq)
		c.LoanID = loanID
		if c.Status == CopyBorrowed {
			l.Status = CopyBorrowed
		}
		l.Copies = append(l.Copies, c)
	}
	return l, rows.Err()
}

func (r *LoanRepo) List(ctx context.Context) ([]LoanSummary, error) {
	return r.list(ctx, ``, nil)
}

func (r *LoanRepo) HistoryByCustomer(ctx context.Context, customerID string) ([]LoanSummary, error) {
	return r.list(ctx, `WHERE l.customer_id = $1`, []any{customerID})
}

func (r *LoanRepo) list(ctx context.Context, where string, args []any) ([]LoanSummary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT l.id, l.seq, l.external_id, l.customer_id, c.name, l.loan_date, l.due_date,
		       COUNT(lc.id) AS total,
		       COUNT(*) FILTER (WHERE lc.status = 'BORROWED') AS open
		FROM loans l
		JOIN customers c ON c.id = l.customer_id
		LEFT JOIN loan_copies lc ON lc.loan_id = l.id
		`+where+`
		GROUP BY l.id, l.seq, l.external_id, l.customer_id, c.name, l.loan_date, l.due_date
		ORDER BY l.loan_date DESC, l.seq DESC`, args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LoanSummary
	for rows.Next() {
		var s LoanSummary
		var seq int64
		var extID *string
		if err := rows.Scan(&s.ID, &seq, &extID, &s.CustomerID, &s.CustomerName, &s.LoanDate, &s.DueDate, &s.TotalCopies, &s.OpenCopies); err != nil {
			return nil, err
		}
		s.Label = Label(LabelLoan, seq)
		if extID != nil {
			s.ExternalID = *extID
		}
		s.Status = CopyReturned
		if s.OpenCopies > 0 {
			s.Status = CopyBorrowed
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
