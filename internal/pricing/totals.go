package pricing

// AggregateTotals folds resolver output into the order-level summary. Because
// the resolver already back-distributed the voucher amount across the lines,
// the sum of the line totals always equals FinalTotal exactly; there is no
// second rounding pass here. The voucher argument mirrors the resolver call
// and exists so both views are derived from the same participation decision.
func AggregateTotals(items DisplayItems, v *Voucher) CartTotals {
	totals := CartTotals{}
	for _, item := range items {
		totals.SubtotalBeforeDiscount += item.Original * item.Quantity
		totals.PromotionDiscount += item.PromotionDiscount * item.Quantity
		totals.VoucherDiscount += item.VoucherDiscount
	}

	final := totals.SubtotalBeforeDiscount - totals.PromotionDiscount - totals.VoucherDiscount
	if final < 0 {
		final = 0
	}
	totals.FinalTotal = final
	return totals
}
