package enums

import "fmt"

// WarehouseLocation names which side of the corridor is handling the parcel.
type WarehouseLocation string

const (
	WarehouseLocationOrigin      WarehouseLocation = "origin"
	WarehouseLocationDestination WarehouseLocation = "destination"
)

var validWarehouseLocations = []WarehouseLocation{
	WarehouseLocationOrigin,
	WarehouseLocationDestination,
}

// String implements fmt.Stringer.
func (w WarehouseLocation) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WarehouseLocation.
func (w WarehouseLocation) IsValid() bool {
	for _, candidate := range validWarehouseLocations {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWarehouseLocation converts raw input into a WarehouseLocation.
func ParseWarehouseLocation(value string) (WarehouseLocation, error) {
	for _, candidate := range validWarehouseLocations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid warehouse location %q", value)
}
