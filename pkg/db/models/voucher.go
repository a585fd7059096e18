package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/homeslands/order-sub002/pkg/enums"
)

// Voucher is an order-level discount instrument. Value is interpreted per
// Type: a percent for PERCENT_ORDER, an amount for FIXED_VALUE, a unit price
// for SAME_PRICE_PRODUCT. Amounts are in the smallest currency unit.
type Voucher struct {
	ID                     uuid.UUID                      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug                   string                         `gorm:"column:slug;uniqueIndex;not null"`
	Code                   string                         `gorm:"column:code;uniqueIndex;not null"`
	Title                  string                         `gorm:"column:title;not null"`
	Description            *string                        `gorm:"column:description"`
	Type                   enums.VoucherType              `gorm:"column:type;type:voucher_type;not null"`
	Value                  int                            `gorm:"column:value;not null"`
	MinOrderValue          int                            `gorm:"column:min_order_value;not null;default:0"`
	ApplicabilityRule      enums.VoucherApplicabilityRule `gorm:"column:applicability_rule;type:voucher_applicability_rule;not null"`
	IsVerificationIdentity bool                           `gorm:"column:is_verification_identity;not null;default:false"`
	RemainingUsage         int                            `gorm:"column:remaining_usage;not null;default:0"`
	MaxUsage               int                            `gorm:"column:max_usage;not null;default:0"`
	StartDate              time.Time                      `gorm:"column:start_date"`
	EndDate                time.Time                      `gorm:"column:end_date"`
	IsActive               bool                           `gorm:"column:is_active;not null;default:true"`
	IsPrivate              bool                           `gorm:"column:is_private;not null;default:false"`
	Products               []VoucherProduct               `gorm:"foreignKey:VoucherID;constraint:OnDelete:CASCADE"`
	CreatedAt              time.Time                      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time                      `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductSlugs flattens the voucher's product scope.
func (v *Voucher) ProductSlugs() []string {
	slugs := make([]string, 0, len(v.Products))
	for _, p := range v.Products {
		slugs = append(slugs, p.ProductSlug)
	}
	return slugs
}

// VoucherProduct pins one product into a voucher's scope.
type VoucherProduct struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VoucherID   uuid.UUID `gorm:"column:voucher_id;type:uuid;not null;index"`
	ProductSlug string    `gorm:"column:product_slug;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
