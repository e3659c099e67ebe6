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

type MembershipRepo struct{ DB *pgxpool.Pool }

// Purchase: paket divalidasi terhadap tabel harga server (nominal kiriman
// client tidak dipercaya). Membership + transaksi ledger satu transaksi.
// Status pelanggan tidak disimpan; turunan dari tanggal expired saat baca.
func (r *MembershipRepo) Purchase(ctx context.Context, customerID, packageName, method string, start time.Time) (Membership, error) {
	pkg, err := ResolvePackage(packageName)
	if err != nil {
		return Membership{}, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Membership{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var customerExists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id=$1)`, customerID).Scan(&customerExists); err != nil {
		return Membership{}, err
	}
	if !customerExists {
		return Membership{}, fmt.Errorf("customer %s: %w", customerID, ErrNotFound)
	}

	m := Membership{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Package:    pkg.Name,
		StartDate:  DateOnly(start),
		ExpiryDate: AddMonths(start, pkg.Months),
	}

	var seq int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO memberships(id, customer_id, package, start_date, expiry_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq`,
		m.ID, m.CustomerID, m.Package, m.StartDate, m.ExpiryDate,
	).Scan(&seq); err != nil {
		return Membership{}, err
	}
	m.Label = Label(LabelMembership, seq)

	if _, err := tx.Exec(ctx, `
		INSERT INTO transactions(id, customer_id, kind, tx_date, amount, method)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), customerID, TxMembershipPurchase, DateOnly(start), pkg.Price, method,
	); err != nil {
		return Membership{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Membership{}, err
	}
	m.Status = StatusForExpiry(m.ExpiryDate, start)
	return m, nil
}

// Extend: dorong expiry dari nilainya sekarang (bukan dari hari ini),
// sisa periode tidak hangus.
func (r *MembershipRepo) Extend(ctx context.Context, membershipID string, months int) (Membership, error) {
	if months <= 0 {
		return Membership{}, fmt.Errorf("%w: months must be positive", ErrInvalidInput)
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Membership{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var m Membership
	var seq int64
	err = tx.QueryRow(ctx, `
		SELECT id, seq, customer_id, package, start_date, expiry_date
		FROM memberships WHERE id = $1 FOR UPDATE`, membershipID,
	).Scan(&m.ID, &seq, &m.CustomerID, &m.Package, &m.StartDate, &m.ExpiryDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return Membership{}, fmt.Errorf("membership %s: %w", membershipID, ErrNotFound)
	}
	if err != nil {
		return Membership{}, err
	}

	m.Label = Label(LabelMembership, seq)
	m.ExpiryDate = AddMonths(m.ExpiryDate, months)

	if _, err := tx.Exec(ctx, `
		UPDATE memberships SET expiry_date = $2 WHERE id = $1`,
		membershipID, m.ExpiryDate,
	); err != nil {
		return Membership{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Membership{}, err
	}
	return m, nil
}

func (r *MembershipRepo) List(ctx context.Context, today time.Time) ([]Membership, error) {
	return r.list(ctx, today, ``, nil)
}

func (r *MembershipRepo) Active(ctx context.Context, today time.Time) ([]Membership, error) {
	return r.list(ctx, today, `WHERE m.expiry_date >= $1`, []any{DateOnly(today)})
}

// Expiring: masih aktif tapi expired dalam windowDays ke depan.
func (r *MembershipRepo) Expiring(ctx context.Context, today time.Time, windowDays int) ([]Membership, error) {
	return r.list(ctx, today,
		`WHERE m.expiry_date BETWEEN $1 AND $2`,
		[]any{DateOnly(today), DateOnly(today).AddDate(0, 0, windowDays)},
	)
}

func (r *MembershipRepo) LatestByCustomer(ctx context.Context, customerID string, today time.Time) (Membership, error) {
	ms, err := r.list(ctx, today, `WHERE m.customer_id = $1`, []any{customerID})
	if err != nil {
		return Membership{}, err
	}
	if len(ms) == 0 {
		return Membership{}, fmt.Errorf("membership for customer %s: %w", customerID, ErrNotFound)
	}
	return ms[0], nil
}

func (r *MembershipRepo) list(ctx context.Context, today time.Time, where string, args []any) ([]Membership, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT m.id, m.seq, m.customer_id, c.name, m.package, m.start_date, m.expiry_date
		FROM memberships m
		JOIN customers c ON c.id = m.customer_id
		`+where+`
		ORDER BY m.expiry_date DESC`, args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Membership
	for rows.Next() {
		var m Membership
		var seq int64
		if err := rows.Scan(&m.ID, &seq, &m.CustomerID, &m.CustomerName, &m.Package, &m.StartDate, &m.ExpiryDate); err != nil {
			return nil, err
		}
		m.Label = Label(LabelMembership, seq)
		m.Status = StatusForExpiry(m.ExpiryDate, today)
		if m.Status == MembershipActive {
			m.DaysRemaining = DaysLate(today, m.ExpiryDate) // hari tersisa sampai expired
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
