package enums

import "fmt"

// ParcelType is the catalog key used to price a booking.
type ParcelType string

const (
	ParcelTypeSmallBox     ParcelType = "small_box"
	ParcelTypeMediumBox    ParcelType = "medium_box"
	ParcelTypeLargeBox     ParcelType = "large_box"
	ParcelTypeTV           ParcelType = "tv"
	ParcelTypeDrum         ParcelType = "drum"
	ParcelTypeCustomSmall  ParcelType = "custom_small"
	ParcelTypeCustomMedium ParcelType = "custom_medium"
	ParcelTypeCustomLarge  ParcelType = "custom_large"
)

var validParcelTypes = []ParcelType{
	ParcelTypeSmallBox,
	ParcelTypeMediumBox,
	ParcelTypeLargeBox,
	ParcelTypeTV,
	ParcelTypeDrum,
	ParcelTypeCustomSmall,
	ParcelTypeCustomMedium,
	ParcelTypeCustomLarge,
}

// String implements fmt.Stringer.
func (p ParcelType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ParcelType.
func (p ParcelType) IsValid() bool {
	for _, candidate := range validParcelTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseParcelType converts raw input into a ParcelType.
func ParseParcelType(value string) (ParcelType, error) {
	for _, candidate := range validParcelTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid parcel type %q", value)
}
