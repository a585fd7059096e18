package vouchers

import (
	"github.com/homeslands/order-sub002/internal/pricing"
	"github.com/homeslands/order-sub002/pkg/db/models"
)

// Snapshot converts the persisted voucher into the immutable form the pricing
// engine consumes. Every call path prices vouchers through this one
// conversion so the engine never sees a gorm model.
func Snapshot(v *models.Voucher) *pricing.Voucher {
	if v == nil {
		return nil
	}
	return &pricing.Voucher{
		Slug:             v.Slug,
		Code:             v.Code,
		Type:             v.Type,
		Value:            v.Value,
		MinOrderValue:    v.MinOrderValue,
		Rule:             v.ApplicabilityRule,
		ProductSlugs:     v.ProductSlugs(),
		RequiresIdentity: v.IsVerificationIdentity,
		RemainingUsage:   v.RemainingUsage,
		MaxUsage:         v.MaxUsage,
		StartDate:        v.StartDate,
		EndDate:          v.EndDate,
		IsActive:         v.IsActive,
		IsPrivate:        v.IsPrivate,
	}
}
