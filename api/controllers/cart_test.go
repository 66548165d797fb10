package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/baxoq/baxoq-store-backend/api/middleware"
	cartsvc "github.com/baxoq/baxoq-store-backend/internal/cart"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

type stubCartService struct {
	record      *cartsvc.Cart
	err         error
	lastProduct uuid.UUID
	lastQty     int
}

func (s *stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.Cart, error) {
	return s.record, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID, productID uuid.UUID, qty int) (*cartsvc.Cart, error) {
	s.lastProduct = productID
	s.lastQty = qty
	return s.record, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.Cart, error) {
	s.lastProduct = productID
	return s.record, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) (*cartsvc.Cart, error) {
	return s.record, s.err
}

func (s *stubCartService) SetShippingAddress(ctx context.Context, userID uuid.UUID, addr types.Address) (*cartsvc.Cart, error) {
	return s.record, s.err
}

func (s *stubCartService) SetPaymentMethod(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*cartsvc.Cart, error) {
	return s.record, s.err
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
}

func testCart() *cartsvc.Cart {
	c := cartsvc.New()
	c.Items = []cartsvc.LineItem{{
		ProductID: uuid.New(),
		Name:      "Folded Steel Katana",
		UnitPrice: decimal.RequireFromString("50.00"),
		Qty:       1,
	}}
	return c
}

func TestCartFetchSuccess(t *testing.T) {
	handler := CartFetch(&stubCartService{record: testCart()}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.Cart `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("expected one line got %d", len(envelope.Data.Items))
	}
}

func TestCartAddItemSuccess(t *testing.T) {
	svc := &stubCartService{record: testCart()}
	handler := CartAddItem(svc, nil)
	productID := uuid.New()

	body := fmt.Sprintf(`{"productId":%q,"qty":2}`, productID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastProduct != productID {
		t.Fatalf("expected product %s got %s", productID, svc.lastProduct)
	}
	if svc.lastQty != 2 {
		t.Fatalf("expected qty 2 got %d", svc.lastQty)
	}
}

func TestCartAddItemRejectsBadBody(t *testing.T) {
	handler := CartAddItem(&stubCartService{record: testCart()}, nil)

	for _, body := range []string{
		`{"productId":"not-a-uuid","qty":1}`,
		`{"qty":1}`,
		fmt.Sprintf(`{"productId":%q,"qty":0}`, uuid.New()),
		fmt.Sprintf(`{"productId":%q,"qty":1,"extra":true}`, uuid.New()),
	} {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400 got %d", body, resp.Code)
		}
	}
}

func TestCartAddItemSurfacesStockExhausted(t *testing.T) {
	svcErr := pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds available stock").
		WithDetails(map[string]any{"availableStock": 1})
	handler := CartAddItem(&stubCartService{err: svcErr}, nil)

	body := fmt.Sprintf(`{"productId":%q,"qty":5}`, uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Details == nil {
		t.Fatal("expected stock details in response")
	}
}

func TestCartRemoveItemParsesPathParam(t *testing.T) {
	svc := &stubCartService{record: testCart()}
	productID := uuid.New()

	router := chi.NewRouter()
	router.Delete("/api/v1/cart/items/{productId}", CartRemoveItem(svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodDelete, "/api/v1/cart/items/"+productID.String(), ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastProduct != productID {
		t.Fatalf("expected product %s got %s", productID, svc.lastProduct)
	}
}

func TestCartSetPaymentMethodRejectsUnknown(t *testing.T) {
	handler := CartSetPaymentMethod(&stubCartService{record: testCart()}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/cart/payment-method", `{"method":"barter"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
