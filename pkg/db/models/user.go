package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

// User represents the canonical storefront identity.
type User struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string         `gorm:"column:name;not null"`
	Email           string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash    string         `gorm:"column:password_hash;not null"`
	IsAdmin         bool           `gorm:"column:is_admin;not null;default:false"`
	ShippingAddress *types.Address `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	LastLoginAt     *time.Time     `gorm:"column:last_login_at"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
