package pricing

// Quote bundles everything one pricing pass produces. Every consumer (cart
// view, checkout, order update, receipt and the settlement recompute) goes
// through BuildQuote so they cannot disagree on a single unit.
type Quote struct {
	Items     DisplayItems
	Totals    CartTotals
	Usability Usability
	// Applicable reports whether the voucher's product scope matched the
	// cart. Participating is true only when Usability.OK and Applicable both
	// hold; otherwise the voucher was priced as absent.
	Applicable    bool
	Participating bool
}

// BuildQuote runs the full pricing pass over an immutable order snapshot.
// A voucher that fails validity or applicability is ignored for totals; the
// outcome is reported on the quote instead of being an error. Only malformed
// input fails.
func BuildQuote(items []OrderItem, v *Voucher, ctx UsabilityContext) (*Quote, error) {
	quote := &Quote{}

	if v != nil {
		if ctx.SubtotalAfterPromotion == 0 {
			ctx.SubtotalAfterPromotion = subtotalAfterPromotion(items)
		}
		quote.Usability = IsVoucherUsable(v, ctx)
		quote.Applicable = IsVoucherApplicable(productSlugs(items), v)
		quote.Participating = quote.Usability.OK && quote.Applicable
		if quote.Usability.OK && !quote.Applicable {
			quote.Usability = Usability{OK: false, Reason: ReasonNotApplicable}
		}
	}

	applied := v
	if !quote.Participating {
		applied = nil
	}

	display, err := ResolveDisplayItems(items, applied)
	if err != nil {
		return nil, err
	}

	quote.Items = display
	quote.Totals = AggregateTotals(display, applied)
	return quote, nil
}

// subtotalAfterPromotion prices the lines with promotions only, feeding the
// minimum-order-value rule.
func subtotalAfterPromotion(items []OrderItem) int {
	sum := 0
	for _, item := range items {
		discount := 0
		if item.Promotion != nil {
			discount = roundPercent(item.UnitPrice, item.Promotion.Value)
		}
		sum += (item.UnitPrice - discount) * item.Quantity
	}
	return sum
}

func productSlugs(items []OrderItem) []string {
	slugs := make([]string, 0, len(items))
	for _, item := range items {
		slugs = append(slugs, item.ProductSlug)
	}
	return slugs
}
