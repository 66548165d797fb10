package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	checkoutsvc "github.com/baxoq/baxoq-store-backend/internal/checkout"
	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

type stubCheckoutService struct {
	session  *checkoutsvc.Session
	order    *models.Order
	err      error
	lastAddr types.Address
}

func (s *stubCheckoutService) Begin(ctx context.Context, userID uuid.UUID) (*checkoutsvc.Session, error) {
	return s.session, s.err
}

func (s *stubCheckoutService) Get(ctx context.Context, userID uuid.UUID) (*checkoutsvc.Session, error) {
	return s.session, s.err
}

func (s *stubCheckoutService) SubmitShipping(ctx context.Context, userID uuid.UUID, addr types.Address) (*checkoutsvc.Session, error) {
	s.lastAddr = addr
	return s.session, s.err
}

func (s *stubCheckoutService) SelectPayment(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*checkoutsvc.Session, error) {
	return s.session, s.err
}

func (s *stubCheckoutService) Place(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func TestCheckoutBeginReturnsSession(t *testing.T) {
	session := checkoutsvc.NewSession(time.Now().UTC())
	handler := CheckoutBegin(&stubCheckoutService{session: session}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout", ""))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data checkoutsvc.Session `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Step != enums.CheckoutStepShippingInput {
		t.Fatalf("expected shipping_input got %s", envelope.Data.Step)
	}
}

func TestCheckoutBeginEmptyCartConflicts(t *testing.T) {
	handler := CheckoutBegin(&stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeCartEmpty, "cart is empty")}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout", ""))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

type recordingAddressBook struct {
	userID uuid.UUID
	addr   types.Address
	calls  int
}

func (b *recordingAddressBook) UpdateShippingAddress(ctx context.Context, id uuid.UUID, addr types.Address) error {
	b.userID = id
	b.addr = addr
	b.calls++
	return nil
}

func TestCheckoutSubmitShippingPassesAddress(t *testing.T) {
	session := checkoutsvc.NewSession(time.Now().UTC())
	svc := &stubCheckoutService{session: session}
	handler := CheckoutSubmitShipping(svc, nil, nil)

	body := `{"address":"12 Forge Lane","city":"Sheffield","postal_code":"S1 2AB","country":"UK"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/checkout/shipping", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastAddr.City != "Sheffield" {
		t.Fatalf("expected city to reach service, got %q", svc.lastAddr.City)
	}
}

func TestCheckoutSubmitShippingSavesProfileAddress(t *testing.T) {
	addr := types.Address{Address: "12 Forge Lane", City: "Sheffield", PostalCode: "S1 2AB", Country: "UK"}
	session := checkoutsvc.NewSession(time.Now().UTC())
	session.ShippingAddress = &addr

	book := &recordingAddressBook{}
	handler := CheckoutSubmitShipping(&stubCheckoutService{session: session}, book, nil)

	body := `{"address":"12 Forge Lane","city":"Sheffield","postal_code":"S1 2AB","country":"UK"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/checkout/shipping", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if book.calls != 1 {
		t.Fatalf("expected one profile save, got %d", book.calls)
	}
	if book.addr.City != "Sheffield" {
		t.Fatalf("expected saved city Sheffield, got %q", book.addr.City)
	}
}

func TestCheckoutStepSkipSurfacesStateConflict(t *testing.T) {
	svcErr := pkgerrors.New(pkgerrors.CodeStateConflict, "checkout step out of order").
		WithDetails(map[string]any{"currentStep": "shipping_input", "expectedStep": "review"})
	handler := CheckoutPlace(&stubCheckoutService{err: svcErr}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout/place", ""))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
	if envelope.Error.Details == nil {
		t.Fatal("expected step details in response")
	}
}

func TestCheckoutPlaceReturnsOrder(t *testing.T) {
	order := &models.Order{ID: uuid.New(), Status: enums.OrderStatusPending}
	handler := CheckoutPlace(&stubCheckoutService{order: order}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout/place", ""))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data models.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != order.ID {
		t.Fatalf("unexpected order id %s", envelope.Data.ID)
	}
}
