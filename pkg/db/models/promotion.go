package models

import (
	"time"

	"github.com/google/uuid"
)

// Promotion is a per-product percentage discount. Value is a percent, 0-100.
type Promotion struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string    `gorm:"column:slug;uniqueIndex;not null"`
	Title       string    `gorm:"column:title;not null"`
	Description *string   `gorm:"column:description"`
	Value       int       `gorm:"column:value;not null"`
	StartDate   time.Time `gorm:"column:start_date"`
	EndDate     time.Time `gorm:"column:end_date"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
