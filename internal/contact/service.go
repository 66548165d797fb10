package contact

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/pagination"
)

type messageRepo interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
	List(ctx context.Context, status *enums.ContactStatus, params pagination.Params) ([]models.ContactMessage, int64, error)
	Save(ctx context.Context, msg *models.ContactMessage) error
}

// SubmitInput carries one contact-form submission.
type SubmitInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Service handles inbound support messages.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.ContactMessage, error)
	List(ctx context.Context, status *enums.ContactStatus, params pagination.Params) ([]models.ContactMessage, pagination.Page, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.ContactStatus) (*models.ContactMessage, error)
}

type service struct {
	repo messageRepo
}

// NewService builds the contact service.
func NewService(repo messageRepo) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("message repository required")
	}
	return &service{repo: repo}, nil
}

// Submit validates and stores the message with status new.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.ContactMessage, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	subject := strings.TrimSpace(input.Subject)
	message := strings.TrimSpace(input.Message)

	details := map[string]any{}
	if name == "" {
		details["name"] = "is required"
	}
	if email == "" {
		details["email"] = "is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		details["email"] = "must be a valid address"
	}
	if subject == "" {
		details["subject"] = "is required"
	}
	if message == "" {
		details["message"] = "is required"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid contact message").WithDetails(details)
	}

	msg := &models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
		Status:  enums.ContactStatusNew,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "contact storage unavailable")
	}
	return msg, nil
}

// List returns one admin page of messages.
func (s *service) List(ctx context.Context, status *enums.ContactStatus, params pagination.Params) ([]models.ContactMessage, pagination.Page, error) {
	if status != nil && !status.IsValid() {
		return nil, pagination.Page{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown contact status").
			WithDetails(map[string]any{"status": status.String()})
	}

	messages, total, err := s.repo.List(ctx, status, params)
	if err != nil {
		return nil, pagination.Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "contact storage unavailable")
	}
	return messages, pagination.NewPage(params, total), nil
}

// SetStatus moves the message through the triage states.
func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.ContactStatus) (*models.ContactMessage, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown contact status").
			WithDetails(map[string]any{"status": status.String()})
	}

	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contact message not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "contact storage unavailable")
	}

	msg.Status = status
	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "contact storage unavailable")
	}
	return msg, nil
}
