package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/homeslands/order-sub002/pkg/enums"
)

// Order is the persisted order record. The total columns are denormalized
// snapshots of the last pricing pass; readers must always recompute through
// the pricing engine rather than trusting them, and the settlement step
// overwrites them from a fresh recompute.
type Order struct {
	ID                     uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug                   string            `gorm:"column:slug;uniqueIndex;not null"`
	OwnerID                uuid.UUID         `gorm:"column:owner_id;type:uuid;not null"`
	Owner                  *User             `gorm:"foreignKey:OwnerID"`
	Status                 enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	VoucherID              *uuid.UUID        `gorm:"column:voucher_id;type:uuid"`
	Voucher                *Voucher          `gorm:"foreignKey:VoucherID"`
	Items                  []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	SubtotalBeforeDiscount int               `gorm:"column:subtotal_before_discount;not null;default:0"`
	PromotionDiscount      int               `gorm:"column:promotion_discount;not null;default:0"`
	VoucherDiscount        int               `gorm:"column:voucher_discount;not null;default:0"`
	Total                  int               `gorm:"column:total;not null;default:0"`
	Payment                *Payment          `gorm:"foreignKey:OrderID"`
	CreatedAt              time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
