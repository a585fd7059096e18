package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariant is one sellable size of a product. Price is in the smallest
// currency unit.
type ProductVariant struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug      string    `gorm:"column:slug;uniqueIndex;not null"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Size      string    `gorm:"column:size;not null"`
	Price     int       `gorm:"column:price;not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
