package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots one order line at the moment it was added: the variant
// price and any attached promotion are frozen so later catalog edits cannot
// change what the customer saw.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug           string    `gorm:"column:slug;uniqueIndex;not null"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductSlug    string    `gorm:"column:product_slug;not null"`
	ProductName    string    `gorm:"column:product_name;not null"`
	VariantSlug    string    `gorm:"column:variant_slug;not null"`
	VariantSize    string    `gorm:"column:variant_size;not null"`
	UnitPrice      int       `gorm:"column:unit_price;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	Note           *string   `gorm:"column:note"`
	PromotionSlug  *string   `gorm:"column:promotion_slug"`
	PromotionValue *int      `gorm:"column:promotion_value"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
