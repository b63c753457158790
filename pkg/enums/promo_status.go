package enums

import "fmt"

// PromoStatus toggles whether a promo code may be redeemed.
type PromoStatus string

const (
	PromoStatusActive   PromoStatus = "active"
	PromoStatusInactive PromoStatus = "inactive"
)

var validPromoStatuses = []PromoStatus{
	PromoStatusActive,
	PromoStatusInactive,
}

// String implements fmt.Stringer.
func (p PromoStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PromoStatus.
func (p PromoStatus) IsValid() bool {
	for _, candidate := range validPromoStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePromoStatus converts raw input into a PromoStatus.
func ParsePromoStatus(value string) (PromoStatus, error) {
	for _, candidate := range validPromoStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promo status %q", value)
}
