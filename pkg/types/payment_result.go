package types

// PaymentResult is the opaque confirmation token returned by the payment
// gateway when an order is settled. The backend never interprets it beyond
// storage and display.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}
