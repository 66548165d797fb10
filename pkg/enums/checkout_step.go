package enums

// CheckoutStep names a stage in the linear order-placement sequence.
type CheckoutStep string

const (
	CheckoutStepShippingInput CheckoutStep = "shipping_input"
	CheckoutStepPaymentInput  CheckoutStep = "payment_input"
	CheckoutStepReview        CheckoutStep = "review"
	CheckoutStepPlaced        CheckoutStep = "placed"
)

var validCheckoutSteps = []CheckoutStep{
	CheckoutStepShippingInput,
	CheckoutStepPaymentInput,
	CheckoutStepReview,
	CheckoutStepPlaced,
}

// String implements fmt.Stringer.
func (c CheckoutStep) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStep.
func (c CheckoutStep) IsValid() bool {
	for _, candidate := range validCheckoutSteps {
		if candidate == c {
			return true
		}
	}
	return false
}
