package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/logger"
	"github.com/baxoq/baxoq-store-backend/pkg/pagination"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	GetForUser(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params) ([]models.Order, pagination.Page, error)
	MarkPaid(ctx context.Context, id, userID uuid.UUID, isAdmin bool, result types.PaymentResult) (*models.Order, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) (*models.Order, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the order service.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

// Create persists the checkout snapshot and decrements stock in one
// transaction. A failed stock guard aborts the whole order.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeCartEmpty, "cannot place an order with an empty cart")
	}

	order := &models.Order{
		UserID:          input.UserID,
		ShippingAddress: input.ShippingAddress.Trimmed(),
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      input.ItemsPrice,
		ShippingPrice:   input.ShippingPrice,
		TaxPrice:        input.TaxPrice,
		TotalPrice:      input.TotalPrice,
		Status:          enums.OrderStatusPending,
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Qty:       item.Qty,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		for _, item := range input.Items {
			ok, err := repo.DecrementStock(ctx, item.ProductID, item.Qty)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order storage unavailable")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeStockExhausted, "insufficient stock for product").
					WithDetails(map[string]any{
						"productId": item.ProductID.String(),
						"name":      item.Name,
						"qty":       item.Qty,
					})
			}
		}

		if _, err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order storage unavailable")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order storage unavailable")
	}

	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order placed")
	return order, nil
}

// GetForUser loads one order, restricted to its owner unless the caller is an admin.
func (s *service) GetForUser(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID && !isAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return order, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order storage unavailable")
	}
	return orders, nil
}

func (s *service) ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params) ([]models.Order, pagination.Page, error) {
	if status != nil && !status.IsValid() {
		return nil, pagination.Page{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": status.String()})
	}
	orders, total, err := s.repo.ListAll(ctx, status, params)
	if err != nil {
		return nil, pagination.Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order storage unavailable")
	}
	return orders, pagination.NewPage(params, total), nil
}

// MarkPaid stores the gateway result and stamps paidAt. Marking an already
// paid order again returns it unchanged.
func (s *service) MarkPaid(ctx context.Context, id, userID uuid.UUID, isAdmin bool, result types.PaymentResult) (*models.Order, error) {
	order, err := s.GetForUser(ctx, id, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	if order.IsPaid {
		return order, nil
	}

	now := time.Now().UTC()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = &result
	if order.Status == enums.OrderStatusPending {
		order.Status = enums.OrderStatusProcessing
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order storage unavailable")
	}

	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order marked paid")
	return order, nil
}

// MarkDelivered stamps deliveredAt. Delivery is gated on payment; marking an
// already delivered order again returns it unchanged.
func (s *service) MarkDelivered(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.IsDelivered {
		return order, nil
	}
	if !order.IsPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be delivered before it is paid")
	}

	now := time.Now().UTC()
	order.IsDelivered = true
	order.DeliveredAt = &now
	order.Status = enums.OrderStatusDelivered

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order storage unavailable")
	}

	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order marked delivered")
	return order, nil
}

// SetStatus updates the fulfillment status label.
func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": status.String()})
	}

	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Status = status
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order storage unavailable")
	}
	return order, nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order storage unavailable")
	}
	return order, nil
}
