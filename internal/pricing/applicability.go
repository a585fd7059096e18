package pricing

import "github.com/homeslands/order-sub002/pkg/enums"

// IsVoucherApplicable decides whether the voucher's product scope matches the
// cart. A voucher with an empty scope never applies: eligible products must be
// enumerated explicitly, there is no applies-to-everything shortcut.
func IsVoucherApplicable(cartProductSlugs []string, v *Voucher) bool {
	if v == nil || len(v.ProductSlugs) == 0 || len(cartProductSlugs) == 0 {
		return false
	}

	scope := v.scope()

	switch v.Rule {
	case enums.VoucherRuleAllRequired:
		for _, slug := range cartProductSlugs {
			if _, ok := scope[slug]; !ok {
				return false
			}
		}
		return true
	case enums.VoucherRuleAtLeastOneRequired:
		for _, slug := range cartProductSlugs {
			if _, ok := scope[slug]; ok {
				return true
			}
		}
		return false
	default:
		return false
	}
}
