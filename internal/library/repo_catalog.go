package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepo struct{ DB *pgxpool.Pool }

var ErrAlreadyExists = errors.New("already exists")

// Stok TIDAK dimutasi lewat repo ini; hanya transaksi pinjam/kembali yang
// boleh mengubahnya. Create menerima stok awal, Update cuma metadata.

func (r *CatalogRepo) Create(ctx context.Context, b Book) (Book, error) {
	if b.ISBN == "" || b.Title == "" {
		return Book{}, fmt.Errorf("%w: isbn and title required", ErrInvalidInput)
	}
	if b.Stock < 0 {
		return Book{}, fmt.Errorf("%w: negative stock", ErrInvalidInput)
	}
	ct, err := r.DB.Exec(ctx, `
		INSERT INTO books(isbn, title, author, publisher, category, stock, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		ON CONFLICT (isbn) DO NOTHING`,
		b.ISBN, b.Title, b.Author, b.Publisher, b.Category, b.Stock,
	)
	if err != nil {
		return Book{}, err
	}
	if ct.RowsAffected() == 0 {
		return Book{}, fmt.Errorf("book %s: %w", b.ISBN, ErrAlreadyExists)
	}
	return r.Get(ctx, b.ISBN)
}

func (r *CatalogRepo) Update(ctx context.Context, b Book) (Book, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE books
		SET title = $2, author = $3, publisher = $4, category = $5, updated_at = now()
		WHERE isbn = $1`,
		b.ISBN, b.Title, b.Author, b.Publisher, b.Category,
	)
	if err != nil {
		return Book{}, err
	}
	if ct.RowsAffected() == 0 {
		return Book{}, fmt.Errorf("book %s: %w", b.ISBN, ErrNotFound)
	}
	return r.Get(ctx, b.ISBN)
}

// SetActive = tombol administratif satu-satunya; ketersediaan tetap turunan
// (stock > 0 && active), tidak ada flag "Tersedia" tersimpan.
func (r *CatalogRepo) SetActive(ctx context.Context, isbn string, active bool) error {
	ct, err := r.DB.Exec(ctx, `UPDATE books SET active = $2, updated_at = now() WHERE isbn = $1`, isbn, active)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("book %s: %w", isbn, ErrNotFound)
	}
	return nil
}

func (r *CatalogRepo) Delete(ctx context.Context, isbn string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM books WHERE isbn = $1`, isbn)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("book %s: %w", isbn, ErrNotFound)
	}
	return nil
}

func (r *CatalogRepo) Get(ctx context.Context, isbn string) (Book, error) {
	var b Book
	err := r.DB.QueryRow(ctx, `
		SELECT isbn, title, author, publisher, category, stock, active, created_at, updated_at
		FROM books WHERE isbn = $1`, isbn,
	).Scan(&b.ISBN, &b.Title, &b.Author, &b.Publisher, &b.Category, &b.Stock, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, fmt.Errorf("book %s: %w", isbn, ErrNotFound)
	}
	if err != nil {
		return Book{}, err
	}
	b.Available = b.Stock > 0 && b.Active
	return b, nil
}

func (r *CatalogRepo) List(ctx context.Context) ([]Book, error) {
	return r.query(ctx, ``, nil)
}

func (r *CatalogRepo) ListAvailable(ctx context.Context) ([]Book, error) {
	return r.query(ctx, `WHERE stock > 0 AND active`, nil)
}

func (r *CatalogRepo) Search(ctx context.Context, keywords string) ([]Book, error) {
	kw := "%" + keywords + "%"
	return r.query(ctx,
		`WHERE title ILIKE $1 OR author ILIKE $1 OR isbn ILIKE $1`,
		[]any{kw},
	)
}

func (r *CatalogRepo) query(ctx context.Context, where string, args []any) ([]Book, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT isbn, title, author, publisher, category, stock, active, created_at, updated_at
		FROM books `+where+` ORDER BY title`, args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Author, &b.Publisher, &b.Category, &b.Stock, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		b.Available = b.Stock > 0 && b.Active
		out = append(out, b)
	}
	return out, rows.Err()
}
