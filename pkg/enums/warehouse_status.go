package enums

import "fmt"

// WarehouseStatus is the physical handling sub-state of a parcel inside a
// warehouse, independent of its customer-facing status.
type WarehouseStatus string

const (
	WarehouseStatusNone     WarehouseStatus = "none"
	WarehouseStatusReceived WarehouseStatus = "received"
	WarehouseStatusSorted   WarehouseStatus = "sorted"
	WarehouseStatusPacked   WarehouseStatus = "packed"
	WarehouseStatusShipped  WarehouseStatus = "shipped"
)

var validWarehouseStatuses = []WarehouseStatus{
	WarehouseStatusNone,
	WarehouseStatusReceived,
	WarehouseStatusSorted,
	WarehouseStatusPacked,
	WarehouseStatusShipped,
}

var warehouseStatusRank = map[WarehouseStatus]int{
	WarehouseStatusNone:     0,
	WarehouseStatusReceived: 1,
	WarehouseStatusSorted:   2,
	WarehouseStatusPacked:   3,
	WarehouseStatusShipped:  4,
}

// String implements fmt.Stringer.
func (w WarehouseStatus) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WarehouseStatus.
func (w WarehouseStatus) IsValid() bool {
	for _, candidate := range validWarehouseStatuses {
		if candidate == w {
			return true
		}
	}
	return false
}

// Rank orders the sub-track; the track only ever advances.
func (w WarehouseStatus) Rank() int {
	return warehouseStatusRank[w]
}

// AtOrPast reports whether the sub-track has reached other.
func (w WarehouseStatus) AtOrPast(other WarehouseStatus) bool {
	return warehouseStatusRank[w] >= warehouseStatusRank[other]
}

// ParseWarehouseStatus converts raw input into a WarehouseStatus.
func ParseWarehouseStatus(value string) (WarehouseStatus, error) {
	for _, candidate := range validWarehouseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid warehouse status %q", value)
}
