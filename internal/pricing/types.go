package pricing

import (
	"time"

	"github.com/homeslands/order-sub002/pkg/enums"
)

// OrderItem is the immutable snapshot of one order line handed to the engine.
// UnitPrice is the variant price in the smallest currency unit.
type OrderItem struct {
	Slug        string
	ProductSlug string
	ProductName string
	UnitPrice   int
	Quantity    int
	Note        string
	Promotion   *Promotion
}

// Promotion is a per-item percentage discount attached directly to a line.
type Promotion struct {
	Slug  string
	Value int // percent, 0-100
}

// Voucher is the immutable snapshot of an order-level discount instrument.
type Voucher struct {
	Slug             string
	Code             string
	Type             enums.VoucherType
	Value            int
	MinOrderValue    int
	Rule             enums.VoucherApplicabilityRule
	ProductSlugs     []string
	RequiresIdentity bool
	RemainingUsage   int
	MaxUsage         int
	StartDate        time.Time
	EndDate          time.Time
	IsActive         bool
	IsPrivate        bool
}

// scope returns the voucher's product slugs as a set.
func (v *Voucher) scope() map[string]struct{} {
	set := make(map[string]struct{}, len(v.ProductSlugs))
	for _, slug := range v.ProductSlugs {
		set[slug] = struct{}{}
	}
	return set
}

// covers reports whether the product slug is inside the voucher's scope.
func (v *Voucher) covers(productSlug string) bool {
	for _, slug := range v.ProductSlugs {
		if slug == productSlug {
			return true
		}
	}
	return false
}

// DisplayItem is the derived, caller-facing breakdown of one order line.
// Original, PromotionDiscount, PriceAfterPromotion and FinalPrice are unit
// values; VoucherDiscount and LineTotal cover the whole line (quantity
// included) so that sums never drift from the order-level view.
type DisplayItem struct {
	ItemSlug            string
	ProductSlug         string
	ProductName         string
	Quantity            int
	Original            int
	PromotionDiscount   int
	PriceAfterPromotion int
	VoucherDiscount     int
	FinalPrice          int
	LineTotal           int
}

// CartTotals is the derived order-level pricing summary.
type CartTotals struct {
	SubtotalBeforeDiscount int `json:"subtotal_before_discount"`
	PromotionDiscount      int `json:"promotion_discount"`
	VoucherDiscount        int `json:"voucher_discount"`
	FinalTotal             int `json:"final_total"`
}

// Reason explains why a voucher was excluded from pricing. Callers surface it
// to the user so the client can prompt deselection.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonInactive       Reason = "VOUCHER_INACTIVE"
	ReasonExpired        Reason = "VOUCHER_EXPIRED"
	ReasonOutOfStock     Reason = "VOUCHER_OUT_OF_STOCK"
	ReasonMinOrderNotMet Reason = "MIN_ORDER_NOT_MET"
	ReasonNeedsIdentity  Reason = "NEEDS_IDENTITY"
	ReasonNotApplicable  Reason = "NOT_APPLICABLE"
)

// Usability is the outcome of the validity predicate.
type Usability struct {
	OK     bool   `json:"ok"`
	Reason Reason `json:"reason,omitempty"`
}

// UsabilityContext carries the order-side facts the validity predicate needs.
type UsabilityContext struct {
	Now time.Time
	// OwnerRole and OwnerVerified describe the account that owns the order.
	OwnerRole     enums.UserRole
	OwnerVerified bool
	// SubtotalAfterPromotion is the order subtotal with promotions already
	// subtracted, in the smallest currency unit.
	SubtotalAfterPromotion int
	// AppliedVoucherSlug names the voucher already attached to the order
	// under view, if any. That voucher stays usable even with an empty pool.
	AppliedVoucherSlug string
}
