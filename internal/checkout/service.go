package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/baxoq/baxoq-store-backend/internal/cart"
	"github.com/baxoq/baxoq-store-backend/internal/orders"
	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/logger"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

type cartAccess interface {
	Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
}

type orderCreator interface {
	Create(ctx context.Context, input orders.CreateInput) (*models.Order, error)
}

// Service drives the linear checkout sequence.
type Service interface {
	Begin(ctx context.Context, userID uuid.UUID) (*Session, error)
	Get(ctx context.Context, userID uuid.UUID) (*Session, error)
	SubmitShipping(ctx context.Context, userID uuid.UUID, addr types.Address) (*Session, error)
	SelectPayment(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*Session, error)
	Place(ctx context.Context, userID uuid.UUID) (*models.Order, error)
}

type service struct {
	sessions Store
	carts    cartAccess
	orders   orderCreator
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the checkout service.
func NewService(sessions Store, carts cartAccess, orderSvc orderCreator, logg *logger.Logger) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("checkout session store required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		sessions: sessions,
		carts:    carts,
		orders:   orderSvc,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Begin starts (or restarts) a checkout. The entry guard requires an
// authenticated user with a non-empty cart. Restarting an in-flight session
// resets the step to shipping input but keeps the data already collected.
func (s *service) Begin(ctx context.Context, userID uuid.UUID) (*Session, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	userCart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if userCart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeCartEmpty, "cart is empty")
	}

	now := s.now().UTC()
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = NewSession(now)
	} else {
		session.Step = enums.CheckoutStepShippingInput
		session.UpdatedAt = now
	}

	if err := s.save(ctx, userID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns the in-flight session.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Session, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no checkout in progress")
	}
	return session, nil
}

// SubmitShipping validates the address and advances to payment selection.
// Every missing field is reported in a single validation error.
func (s *service) SubmitShipping(ctx context.Context, userID uuid.UUID, addr types.Address) (*Session, error) {
	session, err := s.require(ctx, userID, enums.CheckoutStepShippingInput)
	if err != nil {
		return nil, err
	}

	missing := addr.MissingFields()
	if len(missing) > 0 {
		var combined error
		details := map[string]any{}
		for _, field := range missing {
			combined = multierr.Append(combined, fmt.Errorf("%s is required", field))
			details[field] = "is required"
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, combined, "shipping address is incomplete").
			WithDetails(details)
	}

	trimmed := addr.Trimmed()
	session.ShippingAddress = &trimmed
	session.Step = enums.CheckoutStepPaymentInput
	session.UpdatedAt = s.now().UTC()

	if err := s.save(ctx, userID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectPayment records the payment method and advances to review.
func (s *service) SelectPayment(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*Session, error) {
	session, err := s.require(ctx, userID, enums.CheckoutStepPaymentInput)
	if err != nil {
		return nil, err
	}

	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]any{"paymentMethod": method.String()})
	}

	session.PaymentMethod = &method
	session.Step = enums.CheckoutStepReview
	session.UpdatedAt = s.now().UTC()

	if err := s.save(ctx, userID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Place converts the reviewed cart into a durable order. The cart is cleared
// and the step advanced only after the order write commits; any failure leaves
// both the session and the cart untouched.
func (s *service) Place(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	session, err := s.require(ctx, userID, enums.CheckoutStepReview)
	if err != nil {
		return nil, err
	}
	if session.ShippingAddress == nil || session.PaymentMethod == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout data is incomplete")
	}

	userCart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if userCart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeCartEmpty, "cart is empty")
	}

	input := orders.CreateInput{
		UserID:          userID,
		ShippingAddress: *session.ShippingAddress,
		PaymentMethod:   *session.PaymentMethod,
		ItemsPrice:      userCart.ItemsPrice,
		ShippingPrice:   userCart.ShippingPrice,
		TaxPrice:        userCart.TaxPrice,
		TotalPrice:      userCart.TotalPrice,
	}
	for _, line := range userCart.Items {
		input.Items = append(input.Items, orders.ItemSnapshot{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			UnitPrice: line.UnitPrice,
			Qty:       line.Qty,
		})
	}

	order, err := s.orders.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	// The durable write committed. Cart clearing and the step change are best
	// effort from here: a failure is logged but the order stands.
	if _, err := s.carts.Clear(ctx, userID); err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, userID.String()), "clearing cart after order placement", err)
	}

	session.Step = enums.CheckoutStepPlaced
	session.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, userID, session); err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, userID.String()), "advancing checkout session after order placement", err)
	}

	return order, nil
}

func (s *service) require(ctx context.Context, userID uuid.UUID, step enums.CheckoutStep) (*Session, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no checkout in progress").
			WithDetails(map[string]any{"expectedStep": step.String()})
	}
	if session.Step != step {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout step out of order").
			WithDetails(map[string]any{
				"currentStep":  session.Step.String(),
				"expectedStep": step.String(),
			})
	}
	return session, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*Session, error) {
	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout storage unavailable")
	}
	return session, nil
}

func (s *service) save(ctx context.Context, userID uuid.UUID, session *Session) error {
	if err := s.sessions.Save(ctx, userID, session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout storage unavailable")
	}
	return nil
}
