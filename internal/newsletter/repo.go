package newsletter

import (
	"context"

	"gorm.io/gorm"

	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
)

// Repository persists newsletter subscriptions.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a newsletter repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByEmail loads the subscription for the email, if any.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	var sub models.NewsletterSubscription
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create inserts a new subscription row.
func (r *Repository) Create(ctx context.Context, sub *models.NewsletterSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// Save updates an existing subscription row.
func (r *Repository) Save(ctx context.Context, sub *models.NewsletterSubscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}
