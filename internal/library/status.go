package library

type CopyStatus string

const (
	CopyBorrowed CopyStatus = "BORROWED"
	CopyReturned CopyStatus = "RETURNED"
)

type FineStatus string

const (
	FineUnpaid FineStatus = "UNPAID"
	FinePaid   FineStatus = "PAID"
)

type MembershipStatus string

const (
	MembershipActive  MembershipStatus = "ACTIVE"
	MembershipExpired MembershipStatus = "EXPIRED"
	MembershipNone    MembershipStatus = "NONE"
)

type TransactionKind string

const (
	TxFinePayment        TransactionKind = "FINE_PAYMENT"
	TxMembershipPurchase TransactionKind = "MEMBERSHIP_PURCHASE"
)

// Eksemplar hanya bergerak satu arah; denda juga. Tidak ada jalan balik.
var validCopyNext = map[CopyStatus]map[CopyStatus]bool{
	CopyBorrowed: {CopyReturned: true},
	CopyReturned: {},
}

var validFineNext = map[FineStatus]map[FineStatus]bool{
	FineUnpaid: {FinePaid: true},
	FinePaid:   {},
}

func CanTransitionCopy(from, to CopyStatus) bool {
	return validCopyNext[from][to]
}

func CanTransitionFine(from, to FineStatus) bool {
	return validFineNext[from][to]
}
