package enums

import "fmt"

// ShipmentStatus tracks the customer-facing lifecycle of a parcel.
type ShipmentStatus string

const (
	ShipmentStatusBooked         ShipmentStatus = "booked"
	ShipmentStatusPickedUp       ShipmentStatus = "picked_up"
	ShipmentStatusInTransit      ShipmentStatus = "in_transit"
	ShipmentStatusCustoms        ShipmentStatus = "customs"
	ShipmentStatusOutForDelivery ShipmentStatus = "out_for_delivery"
	ShipmentStatusDelivered      ShipmentStatus = "delivered"
	ShipmentStatusCancelled      ShipmentStatus = "cancelled"
)

var validShipmentStatuses = []ShipmentStatus{
	ShipmentStatusBooked,
	ShipmentStatusPickedUp,
	ShipmentStatusInTransit,
	ShipmentStatusCustoms,
	ShipmentStatusOutForDelivery,
	ShipmentStatusDelivered,
	ShipmentStatusCancelled,
}

var shipmentStatusRank = map[ShipmentStatus]int{
	ShipmentStatusBooked:         0,
	ShipmentStatusPickedUp:       1,
	ShipmentStatusInTransit:      2,
	ShipmentStatusCustoms:        3,
	ShipmentStatusOutForDelivery: 4,
	ShipmentStatusDelivered:      5,
}

// String implements fmt.Stringer.
func (s ShipmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShipmentStatus.
func (s ShipmentStatus) IsValid() bool {
	for _, candidate := range validShipmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status transition is permitted.
func (s ShipmentStatus) IsTerminal() bool {
	return s == ShipmentStatusDelivered || s == ShipmentStatusCancelled
}

// AtOrPast reports whether the status has reached other on the forward track.
// Cancelled shipments are off the track and never compare as reached.
func (s ShipmentStatus) AtOrPast(other ShipmentStatus) bool {
	rank, ok := shipmentStatusRank[s]
	if !ok {
		return false
	}
	otherRank, ok := shipmentStatusRank[other]
	if !ok {
		return false
	}
	return rank >= otherRank
}

// ParseShipmentStatus converts raw input into a ShipmentStatus.
func ParseShipmentStatus(value string) (ShipmentStatus, error) {
	for _, candidate := range validShipmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment status %q", value)
}
