package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations bound to the per-user snapshot store.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, qty int) (*Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) (*Cart, error)
	SetShippingAddress(ctx context.Context, userID uuid.UUID, addr types.Address) (*Cart, error)
	SetPaymentMethod(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*Cart, error)
}

type service struct {
	store    Store
	products productLoader
	pricing  Pricing
}

// NewService builds a cart service backed by the snapshot store and catalog.
func NewService(store Store, products productLoader, pricing Pricing) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{store: store, products: products, pricing: pricing}, nil
}

// Get loads the user's cart, returning an empty cart for first-time shoppers.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	cart, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart storage unavailable")
	}
	return cart, nil
}

// AddItem snapshots the product's current price and stock, then applies a
// last-write-wins upsert of the cart line.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, qty int) (*Cart, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}

	item := LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     image,
		UnitPrice: product.EffectivePrice(),
		Qty:       qty,
	}
	if err := cart.AddOrReplaceItem(item, product.CountInStock, s.pricing); err != nil {
		return nil, err
	}

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.RemoveItem(productID, s.pricing)

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Clear(s.pricing)

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) SetShippingAddress(ctx context.Context, userID uuid.UUID, addr types.Address) (*Cart, error) {
	if missing := addr.MissingFields(); len(missing) > 0 {
		details := map[string]any{}
		for _, field := range missing {
			details[field] = "is required"
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete").
			WithDetails(details)
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.SetShippingAddress(addr)

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) SetPaymentMethod(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*Cart, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]any{"paymentMethod": method.String()})
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.SetPaymentMethod(method)

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) save(ctx context.Context, userID uuid.UUID, cart *Cart) error {
	if err := s.store.Save(ctx, userID, cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart storage unavailable")
	}
	return nil
}
