package contact

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	"github.com/baxoq/baxoq-store-backend/pkg/pagination"
)

// Repository persists contact-form messages.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a contact repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new message.
func (r *Repository) Create(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// FindByID loads one message.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	if err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// List returns one page of messages, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *enums.ContactStatus, params pagination.Params) ([]models.ContactMessage, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContactMessage{})
	if status != nil {
		query = query.Where("status = ?", status.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.ContactMessage
	err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// Save updates an existing message.
func (r *Repository) Save(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Save(msg).Error
}
