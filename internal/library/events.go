package library

import (
	"encoding/json"
	"time"
)

const (
	EventLoanOpened          = "LoanOpened"
	EventCopyReturned        = "CopyReturned"
	EventFinesGenerated      = "FinesGenerated"
	EventFinePaid            = "FinePaid"
	EventMembershipPurchased = "MembershipPurchased"
	EventMembershipExtended  = "MembershipExtended"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "library-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya customer_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload tipe per event ----

type LoanOpenedPayload struct {
	LoanID       string   `json:"loan_id"`
	Label        string   `json:"label"`
	ExternalID   string   `json:"external_id,omitempty"`
	CustomerID   string   `json:"customer_id"`
	CustomerName string   `json:"customer_name,omitempty"`
	ISBNs        []string `json:"isbns"`
	DueDate      string   `json:"due_date"` // YYYY-MM-DD
}

type CopyReturnedPayload struct {
	CopyID     string `json:"copy_id"`
	LoanID     string `json:"loan_id"`
	CustomerID string `json:"customer_id"`
	ISBN       string `json:"isbn"`
}

type FinesGeneratedPayload struct {
	Created    int   `json:"created"`
	Updated    int   `json:"updated"`
	RatePerDay int64 `json:"rate_per_day"`
}

type FinePaidPayload struct {
	FineID     string `json:"fine_id"`
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"`
	Method     string `json:"method"`
}

type MembershipPurchasedPayload struct {
	MembershipID string `json:"membership_id"`
	CustomerID   string `json:"customer_id"`
	Package      string `json:"package"`
	Price        int64  `json:"price"`
	ExpiryDate   string `json:"expiry_date"` // YYYY-MM-DD
}

type MembershipExtendedPayload struct {
	MembershipID string `json:"membership_id"`
	CustomerID   string `json:"customer_id"`
	AddedMonths  int    `json:"added_months"`
	ExpiryDate   string `json:"expiry_date"` // YYYY-MM-DD
}
