package enums

import "fmt"

// VoucherApplicabilityRule decides how a voucher's product scope is matched
// against the cart contents.
type VoucherApplicabilityRule string

const (
	// VoucherRuleAllRequired requires every cart product to be inside the
	// voucher's product scope.
	VoucherRuleAllRequired VoucherApplicabilityRule = "ALL_REQUIRED"
	// VoucherRuleAtLeastOneRequired requires at least one cart product inside
	// the voucher's product scope.
	VoucherRuleAtLeastOneRequired VoucherApplicabilityRule = "AT_LEAST_ONE_REQUIRED"
)

var validVoucherApplicabilityRules = []VoucherApplicabilityRule{
	VoucherRuleAllRequired,
	VoucherRuleAtLeastOneRequired,
}

// String implements fmt.Stringer.
func (r VoucherApplicabilityRule) String() string {
	return string(r)
}

// IsValid reports whether the value is a known VoucherApplicabilityRule.
func (r VoucherApplicabilityRule) IsValid() bool {
	for _, candidate := range validVoucherApplicabilityRules {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseVoucherApplicabilityRule converts raw input into a VoucherApplicabilityRule.
func ParseVoucherApplicabilityRule(value string) (VoucherApplicabilityRule, error) {
	for _, candidate := range validVoucherApplicabilityRules {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid voucher applicability rule %q", value)
}
