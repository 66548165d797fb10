package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

// Product represents a catalog listing.
type Product struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug          string                `gorm:"column:slug;type:text;not null;uniqueIndex"`
	Name          string                `gorm:"column:name;not null;uniqueIndex"`
	Description   string                `gorm:"column:description;not null;default:''"`
	Brand         string                `gorm:"column:brand;not null;default:''"`
	Category      enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Images        pq.StringArray        `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Details       *types.ProductDetails `gorm:"column:details;type:jsonb;serializer:json"`
	Price         decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountPrice *decimal.Decimal      `gorm:"column:discount_price;type:numeric(12,2)"`
	CountInStock  int                   `gorm:"column:count_in_stock;not null;default:0"`
	IsFeatured    bool                  `gorm:"column:is_featured;not null;default:false"`
	IsCollectible bool                  `gorm:"column:is_collectible;not null;default:false"`
	Rating        float64               `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	NumReviews    int                   `gorm:"column:num_reviews;not null;default:0"`
	Reviews       []ProductReview       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice returns the discounted price when one is set.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil && p.DiscountPrice.IsPositive() {
		return *p.DiscountPrice
	}
	return p.Price
}
