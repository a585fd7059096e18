package pricing

import (
	"fmt"

	"github.com/homeslands/order-sub002/pkg/enums"
	pkgerrors "github.com/homeslands/order-sub002/pkg/errors"
)

// ResolveDisplayItems computes the per-line price breakdown. Pass the voucher
// only when it already passed IsVoucherUsable and IsVoucherApplicable; pass
// nil otherwise and the lines price out on promotions alone.
//
// Promotion discounts resolve first, voucher discounts second, and the two
// never compound: SAME_PRICE_PRODUCT overrides the promoted price outright,
// while PERCENT_ORDER and FIXED_VALUE distribute one order-level amount
// across the lines inside the voucher's product scope, proportionally to
// their promoted line totals. The last eligible line absorbs the integer
// remainder so the line sums always equal the order total computed by
// AggregateTotals; lines outside the scope carry no voucher discount.
func ResolveDisplayItems(items []OrderItem, v *Voucher) (DisplayItems, error) {
	if err := validateInput(items, v); err != nil {
		return nil, err
	}

	display := make(DisplayItems, 0, len(items))
	for _, item := range items {
		promoDiscount := 0
		if item.Promotion != nil {
			promoDiscount = roundPercent(item.UnitPrice, item.Promotion.Value)
		}
		pap := item.UnitPrice - promoDiscount

		display = append(display, DisplayItem{
			ItemSlug:            item.Slug,
			ProductSlug:         item.ProductSlug,
			ProductName:         item.ProductName,
			Quantity:            item.Quantity,
			Original:            item.UnitPrice,
			PromotionDiscount:   promoDiscount,
			PriceAfterPromotion: pap,
			FinalPrice:          pap,
			LineTotal:           pap * item.Quantity,
		})
	}

	if v == nil {
		return display, nil
	}

	switch v.Type {
	case enums.VoucherTypeSamePriceProduct:
		applySamePrice(display, v)
	case enums.VoucherTypePercentOrder, enums.VoucherTypeFixedValue:
		applyOrderLevel(display, v)
	}

	return display, nil
}

// applySamePrice overrides the unit price of matching lines. The override
// never raises a price and never stacks with the line's promotion: it caps
// the already-promoted price.
func applySamePrice(display DisplayItems, v *Voucher) {
	for i := range display {
		if !v.covers(display[i].ProductSlug) {
			continue
		}
		final := v.Value
		if final > display[i].PriceAfterPromotion {
			final = display[i].PriceAfterPromotion
		}
		display[i].FinalPrice = final
		display[i].VoucherDiscount = (display[i].PriceAfterPromotion - final) * display[i].Quantity
		display[i].LineTotal = final * display[i].Quantity
	}
}

// applyOrderLevel back-distributes the order-level voucher discount across
// the lines inside the voucher's product scope, weighted by promoted line
// total. Lines outside the scope keep their promoted price. Shares come from
// the still-unallocated amount against the still-unallocated weight, so the
// last eligible line absorbs the integer remainder and a share never exceeds
// its own line total.
func applyOrderLevel(display DisplayItems, v *Voucher) {
	base := 0
	eligibleBase := 0
	for i := range display {
		line := display[i].PriceAfterPromotion * display[i].Quantity
		base += line
		if v.covers(display[i].ProductSlug) {
			eligibleBase += line
		}
	}
	remaining := orderVoucherDiscount(v, base)
	if remaining <= 0 || eligibleBase <= 0 {
		return
	}

	for i := range display {
		if !v.covers(display[i].ProductSlug) {
			continue
		}
		line := display[i].PriceAfterPromotion * display[i].Quantity
		if line <= 0 {
			continue
		}
		share := remaining * line / eligibleBase
		if share > line {
			share = line
		}
		remaining -= share
		eligibleBase -= line

		display[i].VoucherDiscount = share
		display[i].LineTotal = line - share
		display[i].FinalPrice = display[i].PriceAfterPromotion - share/display[i].Quantity
	}
}

// orderVoucherDiscount is the single source of truth for the order-level
// discount amount of the subtractive voucher types. base is the order
// subtotal after promotions.
func orderVoucherDiscount(v *Voucher, base int) int {
	if v == nil || base <= 0 {
		return 0
	}
	switch v.Type {
	case enums.VoucherTypePercentOrder:
		return roundPercent(base, v.Value)
	case enums.VoucherTypeFixedValue:
		if v.Value > base {
			return base
		}
		return v.Value
	}
	return 0
}

// roundPercent returns pct percent of amount, rounded half up. Inputs are
// non-negative integers in the smallest currency unit.
func roundPercent(amount, pct int) int {
	return (amount*pct + 50) / 100
}

func validateInput(items []OrderItem, v *Voucher) error {
	for _, item := range items {
		if item.Slug == "" || item.ProductSlug == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "order item slugs are required")
		}
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("order item %s quantity must be positive", item.Slug))
		}
		if item.UnitPrice < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("order item %s price cannot be negative", item.Slug))
		}
		if p := item.Promotion; p != nil && (p.Value < 0 || p.Value > 100) {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("promotion %s value must be within 0-100", p.Slug))
		}
	}
	if v != nil {
		if !v.Type.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown voucher type %q", v.Type))
		}
		if v.Value < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "voucher value cannot be negative")
		}
	}
	return nil
}
