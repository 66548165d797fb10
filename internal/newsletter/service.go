package newsletter

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"github.com/baxoq/baxoq-store-backend/pkg/db"
	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

type subscriptionRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error)
	Create(ctx context.Context, sub *models.NewsletterSubscription) error
	Save(ctx context.Context, sub *models.NewsletterSubscription) error
}

// Service manages mailing-list membership.
type Service interface {
	Subscribe(ctx context.Context, email string, prefs *types.NewsletterPreferences) (*models.NewsletterSubscription, error)
	Unsubscribe(ctx context.Context, email string) error
}

type service struct {
	repo subscriptionRepo
}

// NewService builds the newsletter service.
func NewService(repo subscriptionRepo) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("subscription repository required")
	}
	return &service{repo: repo}, nil
}

// Subscribe registers the email, reactivating a lapsed subscription in place.
// Subscribing an already active email just refreshes the preferences.
func (s *service) Subscribe(ctx context.Context, email string, prefs *types.NewsletterPreferences) (*models.NewsletterSubscription, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	preferences := types.DefaultNewsletterPreferences()
	if prefs != nil {
		preferences = *prefs
	}

	existing, err := s.repo.FindByEmail(ctx, normalized)
	if err == nil {
		existing.IsActive = true
		existing.Preferences = preferences
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "newsletter storage unavailable")
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "newsletter storage unavailable")
	}

	sub := &models.NewsletterSubscription{
		Email:       normalized,
		Preferences: preferences,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		if db.IsUniqueViolation(err, "idx_newsletter_subscriptions_email") {
			return s.Subscribe(ctx, normalized, prefs)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "newsletter storage unavailable")
	}
	return sub, nil
}

// Unsubscribe deactivates the subscription. Unknown emails are a no-op so the
// endpoint does not leak membership.
func (s *service) Unsubscribe(ctx context.Context, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	sub, err := s.repo.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "newsletter storage unavailable")
	}

	if !sub.IsActive {
		return nil
	}
	sub.IsActive = false
	if err := s.repo.Save(ctx, sub); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "newsletter storage unavailable")
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid email address").
			WithDetails(map[string]any{"email": "must be a valid address"})
	}
	return normalized, nil
}
