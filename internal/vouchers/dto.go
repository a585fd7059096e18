package vouchers

import (
	"time"

	"github.com/homeslands/order-sub002/pkg/db/models"
	"github.com/homeslands/order-sub002/pkg/enums"
)

// VoucherDTO is the read model returned to API consumers.
type VoucherDTO struct {
	Slug                   string                         `json:"slug"`
	Code                   string                         `json:"code"`
	Title                  string                         `json:"title"`
	Description            *string                        `json:"description,omitempty"`
	Type                   enums.VoucherType              `json:"type"`
	Value                  int                            `json:"value"`
	MinOrderValue          int                            `json:"min_order_value"`
	ApplicabilityRule      enums.VoucherApplicabilityRule `json:"applicability_rule"`
	IsVerificationIdentity bool                           `json:"is_verification_identity"`
	RemainingUsage         int                            `json:"remaining_usage"`
	MaxUsage               int                            `json:"max_usage"`
	StartDate              time.Time                      `json:"start_date"`
	EndDate                time.Time                      `json:"end_date"`
	IsActive               bool                           `json:"is_active"`
	IsPrivate              bool                           `json:"is_private"`
	ProductSlugs           []string                       `json:"product_slugs"`
}

// ToDTO converts a persisted voucher into its read model.
func ToDTO(v *models.Voucher) VoucherDTO {
	return VoucherDTO{
		Slug:                   v.Slug,
		Code:                   v.Code,
		Title:                  v.Title,
		Description:            v.Description,
		Type:                   v.Type,
		Value:                  v.Value,
		MinOrderValue:          v.MinOrderValue,
		ApplicabilityRule:      v.ApplicabilityRule,
		IsVerificationIdentity: v.IsVerificationIdentity,
		RemainingUsage:         v.RemainingUsage,
		MaxUsage:               v.MaxUsage,
		StartDate:              v.StartDate,
		EndDate:                v.EndDate,
		IsActive:               v.IsActive,
		IsPrivate:              v.IsPrivate,
		ProductSlugs:           v.ProductSlugs(),
	}
}
