package checkout

import (
	"time"

	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

// Session is the per-user checkout state persisted between steps. The step
// sequence is strictly linear; collected data survives a restart of the flow.
type Session struct {
	Step            enums.CheckoutStep   `json:"step"`
	ShippingAddress *types.Address       `json:"shippingAddress,omitempty"`
	PaymentMethod   *enums.PaymentMethod `json:"paymentMethod,omitempty"`
	StartedAt       time.Time            `json:"startedAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// NewSession starts a checkout at the shipping step.
func NewSession(now time.Time) *Session {
	return &Session{
		Step:      enums.CheckoutStepShippingInput,
		StartedAt: now,
		UpdatedAt: now,
	}
}
