package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/homeslands/order-sub002/pkg/enums"
)

// User represents the canonical identity entity. Placeholder accounts (walk-in
// customers created at the counter) carry IsVerified=false and cannot redeem
// identity-gated vouchers.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Slug         string         `gorm:"column:slug;uniqueIndex;not null"`
	Phone        string         `gorm:"column:phone;uniqueIndex;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null"`
	Role         enums.UserRole `gorm:"column:role;type:user_role;not null;default:'CUSTOMER'"`
	IsVerified   bool           `gorm:"column:is_verified;not null;default:false"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
