package cart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/baxoq/baxoq-store-backend/pkg/config"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

// Pricing holds the storefront pricing rules applied on every recompute.
type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultPricing returns the stock storefront rules: free shipping strictly
// above 100.00, 15.99 flat fee otherwise, 8% tax.
func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: decimal.RequireFromString("100.00"),
		FlatShippingFee:       decimal.RequireFromString("15.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

// PricingFromConfig parses the configured decimal strings into pricing rules.
func PricingFromConfig(cfg config.PricingConfig) (Pricing, error) {
	threshold, err := decimal.NewFromString(cfg.FreeShippingThreshold)
	if err != nil {
		return Pricing{}, fmt.Errorf("parsing free shipping threshold %q: %w", cfg.FreeShippingThreshold, err)
	}
	fee, err := decimal.NewFromString(cfg.FlatShippingFee)
	if err != nil {
		return Pricing{}, fmt.Errorf("parsing flat shipping fee %q: %w", cfg.FlatShippingFee, err)
	}
	rate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return Pricing{}, fmt.Errorf("parsing tax rate %q: %w", cfg.TaxRate, err)
	}
	return Pricing{
		FreeShippingThreshold: threshold,
		FlatShippingFee:       fee,
		TaxRate:               rate,
	}, nil
}

// LineItem is a cart line frozen at the price observed when it was added.
type LineItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Qty       int             `json:"qty"`
}

// Cart is the per-user shopping cart. Totals are derived, recomputed on every
// mutation and never accepted from the outside.
type Cart struct {
	Items           []LineItem           `json:"items"`
	ShippingAddress *types.Address       `json:"shippingAddress,omitempty"`
	PaymentMethod   *enums.PaymentMethod `json:"paymentMethod,omitempty"`
	ItemsPrice      decimal.Decimal      `json:"itemsPrice"`
	ShippingPrice   decimal.Decimal      `json:"shippingPrice"`
	TaxPrice        decimal.Decimal      `json:"taxPrice"`
	TotalPrice      decimal.Decimal      `json:"totalPrice"`
}

// New returns an empty cart with zeroed totals.
func New() *Cart {
	c := &Cart{Items: []LineItem{}}
	c.Recompute(DefaultPricing())
	return c
}

// IsEmpty reports whether the cart holds no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// AddOrReplaceItem inserts the line or, when the product is already present,
// replaces it wholesale (last write wins, quantities never accumulate).
// Insertion order is preserved for display.
func (c *Cart) AddOrReplaceItem(item LineItem, availableStock int, p Pricing) error {
	if item.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if item.Qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]any{"qty": item.Qty})
	}
	if item.Qty > availableStock {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds available stock").
			WithDetails(map[string]any{"qty": item.Qty, "countInStock": availableStock})
	}
	if item.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}

	replaced := false
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		c.Items = append(c.Items, item)
	}

	c.Recompute(p)
	return nil
}

// RemoveItem drops the line for the product. Removing an absent product is a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID, p Pricing) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}
	c.Recompute(p)
}

// Clear empties the cart. Shipping address and payment method are retained so
// a shopper can refill the cart without re-entering checkout data.
func (c *Cart) Clear(p Pricing) {
	c.Items = []LineItem{}
	c.Recompute(p)
}

// SetShippingAddress stores the destination used by checkout.
func (c *Cart) SetShippingAddress(addr types.Address) {
	trimmed := addr.Trimmed()
	c.ShippingAddress = &trimmed
}

// SetPaymentMethod stores the selected payment method.
func (c *Cart) SetPaymentMethod(method enums.PaymentMethod) {
	c.PaymentMethod = &method
}

// Recompute rederives all four totals from the line items. Shipping is free
// strictly above the threshold, and tax is rounded half-up to cents.
func (c *Cart) Recompute(p Pricing) {
	if len(c.Items) == 0 {
		c.ItemsPrice = decimal.Zero
		c.ShippingPrice = decimal.Zero
		c.TaxPrice = decimal.Zero
		c.TotalPrice = decimal.Zero
		return
	}

	items := decimal.Zero
	for _, line := range c.Items {
		items = items.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty))))
	}

	shipping := p.FlatShippingFee
	if items.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	// decimal.Round is half away from zero, which matches half-up for
	// non-negative totals.
	tax := items.Mul(p.TaxRate).Round(2)

	c.ItemsPrice = items
	c.ShippingPrice = shipping
	c.TaxPrice = tax
	c.TotalPrice = items.Add(shipping).Add(tax)
}
