package library

import "fmt"

// Label tampilan ("PM001", "D042"). Primary key tetap uuid; nomor urut
// datang dari kolom seq, bukan dari parsing id terakhir.
const (
	LabelCustomer    = "P"
	LabelLoan        = "PM"
	LabelCopy        = "DP"
	LabelFine        = "D"
	LabelMembership  = "M"
	LabelTransaction = "T"
)

func Label(prefix string, seq int64) string {
	if prefix == LabelTransaction {
		return fmt.Sprintf("%s%04d", prefix, seq)
	}
	return fmt.Sprintf("%s%03d", prefix, seq)
}
