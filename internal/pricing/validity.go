package pricing

import (
	"time"

	"github.com/homeslands/order-sub002/pkg/enums"
)

// IsVoucherUsable decides whether a voucher may participate in pricing at all.
// It never returns an error: a voucher that fails any rule is reported with a
// reason and simply ignored by the resolver.
func IsVoucherUsable(v *Voucher, ctx UsabilityContext) Usability {
	if v == nil {
		return Usability{OK: false, Reason: ReasonInactive}
	}

	if !v.IsActive {
		return Usability{OK: false, Reason: ReasonInactive}
	}

	if expired(v, ctx.Now) {
		return Usability{OK: false, Reason: ReasonExpired}
	}

	// The voucher already consumed by the order under view must not be hidden
	// just because its pool has since drained.
	if v.RemainingUsage <= 0 && (ctx.AppliedVoucherSlug == "" || ctx.AppliedVoucherSlug != v.Slug) {
		return Usability{OK: false, Reason: ReasonOutOfStock}
	}

	// SAME_PRICE_PRODUCT ignores the minimum order value.
	if v.Type != enums.VoucherTypeSamePriceProduct && ctx.SubtotalAfterPromotion < v.MinOrderValue {
		return Usability{OK: false, Reason: ReasonMinOrderNotMet}
	}

	if v.RequiresIdentity {
		if ctx.OwnerRole != enums.RoleCustomer || !ctx.OwnerVerified {
			return Usability{OK: false, Reason: ReasonNeedsIdentity}
		}
	}

	return Usability{OK: true}
}

// expired applies the 7:00 local-time cutoff: the reference instant is today
// at 07:00 in the caller's zone, not midnight and not the exact clock time.
// This mirrors the store's opening-hour accounting and is intentional.
func expired(v *Voucher, now time.Time) bool {
	if v.EndDate.IsZero() {
		return false
	}
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 7, 0, 0, 0, now.Location())
	return cutoff.After(v.EndDate)
}
