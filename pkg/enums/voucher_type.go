package enums

import "fmt"

// VoucherType is the closed set of discount strategies a voucher can carry.
// All discount dispatch happens through this type; call sites must never
// compare raw strings.
type VoucherType string

const (
	// VoucherTypePercentOrder discounts a percentage of the order subtotal
	// after promotions.
	VoucherTypePercentOrder VoucherType = "PERCENT_ORDER"
	// VoucherTypeFixedValue discounts a fixed amount capped at the subtotal
	// after promotions.
	VoucherTypeFixedValue VoucherType = "FIXED_VALUE"
	// VoucherTypeSamePriceProduct overrides the unit price of matching
	// products instead of subtracting a discount.
	VoucherTypeSamePriceProduct VoucherType = "SAME_PRICE_PRODUCT"
)

var validVoucherTypes = []VoucherType{
	VoucherTypePercentOrder,
	VoucherTypeFixedValue,
	VoucherTypeSamePriceProduct,
}

// String implements fmt.Stringer.
func (v VoucherType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VoucherType.
func (v VoucherType) IsValid() bool {
	for _, candidate := range validVoucherTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVoucherType converts raw input into a VoucherType.
func ParseVoucherType(value string) (VoucherType, error) {
	for _, candidate := range validVoucherTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid voucher type %q", value)
}
