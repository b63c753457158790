package enums

import "fmt"

// RegionScope is the single side of the corridor a driver operates in. The
// pickup and delivery pools are disjoint.
type RegionScope string

const (
	RegionScopeOriginPickup        RegionScope = "origin_pickup"
	RegionScopeDestinationDelivery RegionScope = "destination_delivery"
)

var validRegionScopes = []RegionScope{
	RegionScopeOriginPickup,
	RegionScopeDestinationDelivery,
}

// String implements fmt.Stringer.
func (r RegionScope) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RegionScope.
func (r RegionScope) IsValid() bool {
	for _, candidate := range validRegionScopes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRegionScope converts raw input into a RegionScope.
func ParseRegionScope(value string) (RegionScope, error) {
	for _, candidate := range validRegionScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid region scope %q", value)
}
