package events

// Topic constants for domain events emitted by the cart engine.
const (
	TopicReceiptIssued    = "receipt.issued"
	TopicDiscountRejected = "discount.rejected"
)

// DefaultTopics returns the canonical list of topics.
func DefaultTopics() []string {
	return []string{
		TopicReceiptIssued,
		TopicDiscountRejected,
	}
}
