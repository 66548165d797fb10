package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	usersvc "github.com/baxoq/baxoq-store-backend/internal/users"
	"github.com/baxoq/baxoq-store-backend/pkg/pagination"
)

type stubUsersService struct {
	dto       usersvc.UserDTO
	err       error
	lastInput usersvc.UpdateProfileInput
	deletedID uuid.UUID
}

func (s *stubUsersService) GetProfile(ctx context.Context, userID uuid.UUID) (usersvc.UserDTO, error) {
	return s.dto, s.err
}

func (s *stubUsersService) UpdateProfile(ctx context.Context, userID uuid.UUID, input usersvc.UpdateProfileInput) (usersvc.UserDTO, error) {
	s.lastInput = input
	return s.dto, s.err
}

func (s *stubUsersService) List(ctx context.Context, params pagination.Params) ([]usersvc.UserDTO, pagination.Page, error) {
	return []usersvc.UserDTO{s.dto}, pagination.NewPage(params, 1), s.err
}

func (s *stubUsersService) Delete(ctx context.Context, id uuid.UUID) error {
	s.deletedID = id
	return s.err
}

func TestProfileFetchReturnsAccount(t *testing.T) {
	svc := &stubUsersService{dto: usersvc.UserDTO{ID: uuid.New(), Name: "Rosa Vane", Email: "rosa@example.com"}}
	handler := ProfileFetch(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/profile", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data usersvc.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Email != "rosa@example.com" {
		t.Fatalf("expected email in response, got %q", envelope.Data.Email)
	}
}

func TestProfileUpdatePassesOnlyProvidedFields(t *testing.T) {
	svc := &stubUsersService{}
	handler := ProfileUpdate(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/profile", `{"name":"Rosa V"}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastInput.Name == nil || *svc.lastInput.Name != "Rosa V" {
		t.Fatalf("expected name to reach service, got %v", svc.lastInput.Name)
	}
	if svc.lastInput.Email != nil || svc.lastInput.Password != nil || svc.lastInput.ShippingAddress != nil {
		t.Fatal("expected absent fields to stay nil")
	}
}

func TestProfileUpdateRejectsUnknownFields(t *testing.T) {
	handler := ProfileUpdate(&stubUsersService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/profile", `{"isAdmin":true}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminUserDeleteParsesPathParam(t *testing.T) {
	svc := &stubUsersService{}
	router := chi.NewRouter()
	router.Delete("/users/{userId}", AdminUserDelete(svc, nil))

	id := uuid.New()
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodDelete, "/users/"+id.String(), ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.deletedID != id {
		t.Fatalf("expected delete for %s, got %s", id, svc.deletedID)
	}
}
