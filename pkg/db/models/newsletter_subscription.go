package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

// NewsletterSubscription holds a mailing-list opt-in keyed by email.
type NewsletterSubscription struct {
	ID           uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string                      `gorm:"column:email;type:text;not null;uniqueIndex"`
	Preferences  types.NewsletterPreferences `gorm:"column:preferences;type:jsonb;serializer:json;not null"`
	IsActive     bool                        `gorm:"column:is_active;not null;default:true"`
	SubscribedAt time.Time                   `gorm:"column:subscribed_at;autoCreateTime"`
	UpdatedAt    time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}
