package library

const (
	TopicLoanOpened          = "library.loan.opened"
	TopicCopyReturned        = "library.loan.returned"
	TopicFinesGenerated      = "library.fine.generated"
	TopicFinePaid            = "library.fine.paid"
	TopicMembershipPurchased = "library.membership.purchased"
	TopicMembershipExtended  = "library.membership.extended"
)

// Partition key = customer_id, supaya semua event 1 pelanggan maintain urutan.
func PartitionKey(customerID string) []byte { return []byte(customerID) }
