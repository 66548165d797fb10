package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

// ItemSnapshot is a cart line frozen for order creation.
type ItemSnapshot struct {
	ProductID uuid.UUID
	Name      string
	Image     string
	UnitPrice decimal.Decimal
	Qty       int
}

// CreateInput carries the full checkout snapshot persisted as one order.
// Totals are computed upstream by the cart engine and stored verbatim.
type CreateInput struct {
	UserID          uuid.UUID
	Items           []ItemSnapshot
	ShippingAddress types.Address
	PaymentMethod   enums.PaymentMethod
	ItemsPrice      decimal.Decimal
	ShippingPrice   decimal.Decimal
	TaxPrice        decimal.Decimal
	TotalPrice      decimal.Decimal
}
