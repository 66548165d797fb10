package orders

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/logger"
	"github.com/baxoq/baxoq-store-backend/pkg/pagination"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeRepo struct {
	stock     map[uuid.UUID]int
	orders    map[uuid.UUID]*models.Order
	createErr error
	saveErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		stock:  map[uuid.UUID]int{},
		orders: map[uuid.UUID]*models.Order{},
	}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeRepo) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	remaining, ok := f.stock[productID]
	if !ok || remaining < qty {
		return false, nil
	}
	f.stock[productID] = remaining - qty
	return true, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params) ([]models.Order, int64, error) {
	var out []models.Order
	for _, order := range f.orders {
		if status != nil && order.Status != *status {
			continue
		}
		out = append(out, *order)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) Save(ctx context.Context, order *models.Order) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.orders[order.ID] = order
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
}

func snapshotInput(userID uuid.UUID, items ...ItemSnapshot) CreateInput {
	return CreateInput{
		UserID: userID,
		Items:  items,
		ShippingAddress: types.Address{
			Address:    "12 Forge Lane",
			City:       "Toledo",
			PostalCode: "45001",
			Country:    "Spain",
		},
		PaymentMethod: enums.PaymentMethodCreditCard,
		ItemsPrice:    decimal.RequireFromString("50.00"),
		ShippingPrice: decimal.RequireFromString("15.99"),
		TaxPrice:      decimal.RequireFromString("4.00"),
		TotalPrice:    decimal.RequireFromString("69.99"),
	}
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, fakeTx{}, testLogger())
	require.NoError(t, err)
	return svc
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected typed error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestCreateDecrementsStock(t *testing.T) {
	repo := newFakeRepo()
	productID := uuid.New()
	repo.stock[productID] = 5

	svc := newTestService(t, repo)
	userID := uuid.New()

	order, err := svc.Create(context.Background(), snapshotInput(userID, ItemSnapshot{
		ProductID: productID,
		Name:      "tanto blade",
		UnitPrice: decimal.RequireFromString("50.00"),
		Qty:       2,
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, repo.stock[productID])
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.False(t, order.IsPaid)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "tanto blade", order.Items[0].Name)
}

func TestCreateStockExhausted(t *testing.T) {
	repo := newFakeRepo()
	productID := uuid.New()
	repo.stock[productID] = 1

	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), snapshotInput(uuid.New(), ItemSnapshot{
		ProductID: productID,
		Name:      "tanto blade",
		UnitPrice: decimal.RequireFromString("50.00"),
		Qty:       2,
	}))
	assertCode(t, err, pkgerrors.CodeStockExhausted)
	assert.Empty(t, repo.orders, "order must not be created when stock guard fails")
}

func TestCreateGuards(t *testing.T) {
	svc := newTestService(t, newFakeRepo())

	_, err := svc.Create(context.Background(), snapshotInput(uuid.Nil))
	assertCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = svc.Create(context.Background(), snapshotInput(uuid.New()))
	assertCode(t, err, pkgerrors.CodeCartEmpty)
}

func TestGetForUserOwnership(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	order := &models.Order{ID: uuid.New(), UserID: owner}
	repo.orders[order.ID] = order

	svc := newTestService(t, repo)
	ctx := context.Background()

	got, err := svc.GetForUser(ctx, order.ID, owner, false)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetForUser(ctx, order.ID, uuid.New(), false)
	assertCode(t, err, pkgerrors.CodeForbidden)

	got, err = svc.GetForUser(ctx, order.ID, uuid.New(), true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetForUser(ctx, uuid.New(), owner, false)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	order := &models.Order{ID: uuid.New(), UserID: owner, Status: enums.OrderStatusPending}
	repo.orders[order.ID] = order

	svc := newTestService(t, repo)
	ctx := context.Background()

	result := types.PaymentResult{ID: "pay_123", Status: "COMPLETED", EmailAddress: "buyer@example.com"}
	paid, err := svc.MarkPaid(ctx, order.ID, owner, false, result)
	require.NoError(t, err)
	require.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	require.NotNil(t, paid.PaymentResult)
	assert.Equal(t, "pay_123", paid.PaymentResult.ID)
	assert.Equal(t, enums.OrderStatusProcessing, paid.Status)

	firstPaidAt := *paid.PaidAt

	again, err := svc.MarkPaid(ctx, order.ID, owner, false, types.PaymentResult{ID: "pay_456"})
	require.NoError(t, err)
	assert.Equal(t, firstPaidAt, *again.PaidAt)
	assert.Equal(t, "pay_123", again.PaymentResult.ID, "retry must not overwrite the original result")
}

func TestMarkDeliveredRequiresPayment(t *testing.T) {
	repo := newFakeRepo()
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: enums.OrderStatusPending}
	repo.orders[order.ID] = order

	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.MarkDelivered(ctx, order.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)

	order.IsPaid = true
	delivered, err := svc.MarkDelivered(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, delivered.IsDelivered)
	require.NotNil(t, delivered.DeliveredAt)
	assert.Equal(t, enums.OrderStatusDelivered, delivered.Status)

	firstDeliveredAt := *delivered.DeliveredAt
	again, err := svc.MarkDelivered(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, firstDeliveredAt, *again.DeliveredAt)
}

func TestSetStatus(t *testing.T) {
	repo := newFakeRepo()
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: enums.OrderStatusPending}
	repo.orders[order.ID] = order

	svc := newTestService(t, repo)
	ctx := context.Background()

	updated, err := svc.SetStatus(ctx, order.ID, enums.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)

	_, err = svc.SetStatus(ctx, order.ID, enums.OrderStatus("teleported"))
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestListAllFiltersByStatus(t *testing.T) {
	repo := newFakeRepo()
	shipped := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: enums.OrderStatusShipped}
	pending := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: enums.OrderStatusPending}
	repo.orders[shipped.ID] = shipped
	repo.orders[pending.ID] = pending

	svc := newTestService(t, repo)
	ctx := context.Background()
	params := pagination.Params{Page: 1, PageSize: 10}

	status := enums.OrderStatusShipped
	list, page, err := svc.ListAll(ctx, &status, params)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, shipped.ID, list[0].ID)
	assert.EqualValues(t, 1, page.TotalItems)

	list, _, err = svc.ListAll(ctx, nil, params)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	bogus := enums.OrderStatus("teleported")
	_, _, err = svc.ListAll(ctx, &bogus, params)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateWrapsStorageFailure(t *testing.T) {
	repo := newFakeRepo()
	productID := uuid.New()
	repo.stock[productID] = 5
	repo.createErr = errors.New("connection reset")

	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), snapshotInput(uuid.New(), ItemSnapshot{
		ProductID: productID,
		Name:      "tanto blade",
		UnitPrice: decimal.RequireFromString("50.00"),
		Qty:       1,
	}))
	assertCode(t, err, pkgerrors.CodeDependency)
}
