package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/baxoq/baxoq-store-backend/pkg/enums"
)

// ContactMessage is an inbound support request from the contact form.
type ContactMessage struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string              `gorm:"column:name;not null"`
	Email     string              `gorm:"column:email;not null"`
	Subject   string              `gorm:"column:subject;not null"`
	Message   string              `gorm:"column:message;not null"`
	Status    enums.ContactStatus `gorm:"column:status;type:text;not null;default:'new'"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
