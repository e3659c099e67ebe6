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

type CustomerRepo struct{ DB *pgxpool.Pool }

func (r *CustomerRepo) Create(ctx context.Context, c Customer) (Customer, error) {
	if c.Name == "" {
		return Customer{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	c.ID = uuid.NewString()

	var seq int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO customers(id, name, phone, email, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq, created_at`,
		c.ID, c.Name, c.Phone, c.Email, c.Address,
	).Scan(&seq, &c.CreatedAt)
	if err != nil {
		return Customer{}, err
	}
	c.Label = Label(LabelCustomer, seq)
	c.MembershipStatus = MembershipNone
	return c, nil
}

// Status membership selalu diturunkan dari expiry terakhir saat query;
// tidak ada kolom status yang bisa basi.
const customerSelect = `
	SELECT c.id, c.seq, c.name, c.phone, c.email, c.address, c.created_at,
	       (SELECT MAX(m.expiry_date) FROM memberships m WHERE m.customer_id = c.id)
	FROM customers c`

func (r *CustomerRepo) Get(ctx context.Context, id string, today time.Time) (Customer, error) {
	row := r.DB.QueryRow(ctx, customerSelect+` WHERE c.id = $1`, id)
	c, err := scanCustomer(row, today)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return c, err
}

func (r *CustomerRepo) List(ctx context.Context, today time.Time) ([]Customer, error) {
	return r.query(ctx, today, ` ORDER BY c.seq`, nil)
}

func (r *CustomerRepo) Search(ctx context.Context, keywords string, today time.Time) ([]Customer, error) {
	kw := "%" + keywords + "%"
	return r.query(ctx, today,
		` WHERE c.name ILIKE $1 OR c.email ILIKE $1 OR c.phone ILIKE $1 ORDER BY c.seq`,
		[]any{kw},
	)
}

func (r *CustomerRepo) query(ctx context.Context, today time.Time, tail string, args []any) ([]Customer, error) {
	rows, err := r.DB.Query(ctx, customerSelect+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows, today)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCustomer(row pgx.Row, today time.Time) (Customer, error) {
	var c Customer
	var seq int64
	var expiry *time.Time
	if err := row.Scan(&c.ID, &seq, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &expiry); err != nil {
		return Customer{}, err
	}
	c.Label = Label(LabelCustomer, seq)
	c.MembershipStatus = MembershipNone
	if expiry != nil {
		c.MembershipStatus = StatusForExpiry(*expiry, today)
	}
	return c, nil
}
