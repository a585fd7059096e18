package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a menu entry. The slug is the public handle used by clients and
// by voucher product scoping.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string           `gorm:"column:slug;uniqueIndex;not null"`
	Name        string           `gorm:"column:name;not null"`
	Description *string          `gorm:"column:description"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	PromotionID *uuid.UUID       `gorm:"column:promotion_id;type:uuid"`
	Promotion   *Promotion       `gorm:"foreignKey:PromotionID"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
