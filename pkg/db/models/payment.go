package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/homeslands/order-sub002/pkg/enums"
)

// Payment is the settlement row. Amount is always written from a fresh
// pricing recompute at settlement time, never from a client-supplied number.
type Payment struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug      string              `gorm:"column:slug;uniqueIndex;not null"`
	OrderID   uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Amount    int                 `gorm:"column:amount;not null"`
	Status    enums.PaymentStatus `gorm:"column:status;type:payment_status;not null;default:'pending'"`
	PaidAt    *time.Time          `gorm:"column:paid_at"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
