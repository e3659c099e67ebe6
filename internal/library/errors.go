package library

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrOutOfStock      = errors.New("out of stock")
	ErrAlreadyReturned = errors.New("copy already returned")
	ErrAlreadyPaid     = errors.New("fine already paid")
	ErrInvalidPackage  = errors.New("unknown membership package")
	ErrInvalidInput    = errors.New("invalid input")

	// Return via id peminjaman hanya boleh kalau tinggal satu eksemplar keluar.
	ErrAmbiguousReturn = errors.New("loan has multiple open copies")
)
