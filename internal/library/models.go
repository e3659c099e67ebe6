package library

import "time"

type Book struct {
	ISBN      string    `json:"isbn"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Publisher string    `json:"publisher"`
	Category  string    `json:"category"`
	Stock     int       `json:"stock"`
	Active    bool      `json:"active"`
	Available bool      `json:"available"` // turunan: stock > 0 && active
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Customer struct {
	ID               string           `json:"id"`
	Label            string           `json:"label"`
	Name             string           `json:"name"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email"`
	Address          string           `json:"address"`
	MembershipStatus MembershipStatus `json:"membership_status"` // turunan dari expiry terakhir
	CreatedAt        time.Time        `json:"created_at"`
}

type Loan struct {
	ID           string     `json:"id"`
	Label        string     `json:"label"`
	ExternalID   string     `json:"external_id,omitempty"`
	CustomerID   string     `json:"customer_id"`
	CustomerName string     `json:"customer_name,omitempty"`
	LoanDate     time.Time  `json:"loan_date"`
	DueDate      time.Time  `json:"due_date"`
	Status       CopyStatus `json:"status"` // BORROWED selama masih ada eksemplar keluar
	Copies       []LoanCopy `json:"copies,omitempty"`
}

// LoanCopy = satu eksemplar stok yang keluar; dikembalikan per eksemplar,
// bukan per peminjaman.
type LoanCopy struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	LoanID     string     `json:"loan_id"`
	ISBN       string     `json:"isbn"`
	Title      string     `json:"title,omitempty"`
	Status     CopyStatus `json:"status"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

type LoanSummary struct {
	ID           string     `json:"id"`
	Label        string     `json:"label"`
	ExternalID   string     `json:"external_id,omitempty"`
	CustomerID   string     `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	LoanDate     time.Time  `json:"loan_date"`
	DueDate      time.Time  `json:"due_date"`
	TotalCopies  int        `json:"total_copies"`
	OpenCopies   int        `json:"open_copies"`
	Status       CopyStatus `json:"status"`
}

type OverdueCopy struct {
	CopyID       string    `json:"copy_id"`
	LoanID       string    `json:"loan_id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	ISBN         string    `json:"isbn"`
	Title        string    `json:"title"`
	DueDate      time.Time `json:"due_date"`
	DaysLate     int       `json:"days_late"`
}

type Fine struct {
	ID           string     `json:"id"`
	Label        string     `json:"label"`
	LoanCopyID   string     `json:"loan_copy_id"`
	CustomerID   string     `json:"customer_id"`
	CustomerName string     `json:"customer_name,omitempty"`
	DaysLate     int        `json:"days_late"`
	Amount       int64      `json:"amount"`
	Status       FineStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type FineStats struct {
	Total        int   `json:"total"`
	Paid         int   `json:"paid"`
	Unpaid       int   `json:"unpaid"`
	TotalAmount  int64 `json:"total_amount"`
	PaidAmount   int64 `json:"paid_amount"`
	UnpaidAmount int64 `json:"unpaid_amount"`
}

type Membership struct {
	ID            string           `json:"id"`
	Label         string           `json:"label"`
	CustomerID    string           `json:"customer_id"`
	CustomerName  string           `json:"customer_name,omitempty"`
	Package       string           `json:"package"`
	StartDate     time.Time        `json:"start_date"`
	ExpiryDate    time.Time        `json:"expiry_date"`
	Status        MembershipStatus `json:"status"`
	DaysRemaining int              `json:"days_remaining,omitempty"`
}

// Transaction adalah ledger append-only; tidak pernah di-update atau dihapus.
type Transaction struct {
	ID         string          `json:"id"`
	Label      string          `json:"label"`
	CustomerID string          `json:"customer_id"`
	Kind       TransactionKind `json:"kind"`
	TxDate     time.Time       `json:"tx_date"`
	Amount     int64           `json:"amount"`
	Method     string          `json:"method"`
}

type DashboardStats struct {
	TotalBooks        int `json:"total_books"`
	TotalCustomers    int `json:"total_customers"`
	BorrowedCopies    int `json:"borrowed_copies"`
	UnpaidFines       int `json:"unpaid_fines"`
	ActiveMemberships int `json:"active_memberships"`
}

type MonthlyReport struct {
	Transactions   int   `json:"transactions"`
	Revenue        int64 `json:"revenue"`
	Loans          int   `json:"loans"`
	NewMemberships int   `json:"new_memberships"`
}
