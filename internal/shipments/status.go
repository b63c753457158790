package shipments

import (
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
)

// forwardEdge is the single legal forward step from each non-terminal status.
var forwardEdge = map[enums.ShipmentStatus]enums.ShipmentStatus{
	enums.ShipmentStatusBooked:         enums.ShipmentStatusPickedUp,
	enums.ShipmentStatusPickedUp:       enums.ShipmentStatusInTransit,
	enums.ShipmentStatusInTransit:      enums.ShipmentStatusCustoms,
	enums.ShipmentStatusCustoms:        enums.ShipmentStatusOutForDelivery,
	enums.ShipmentStatusOutForDelivery: enums.ShipmentStatusDelivered,
}

// CanTransition reports whether from → to is a legal status edge: the single
// forward step, or cancellation from any non-terminal status. Terminal states
// have no exits.
func CanTransition(from, to enums.ShipmentStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == enums.ShipmentStatusCancelled {
		return true
	}
	return forwardEdge[from] == to
}

// CanAdvanceWarehouse reports whether the warehouse sub-track move is legal.
// Within a location the track only advances one step at a time; the only
// location change is destination intake, which restarts the track at
// received once the origin side has shipped.
func CanAdvanceWarehouse(
	fromStatus enums.WarehouseStatus, fromLocation enums.WarehouseLocation,
	toStatus enums.WarehouseStatus, toLocation enums.WarehouseLocation,
) bool {
	if fromLocation != toLocation {
		return fromLocation == enums.WarehouseLocationOrigin &&
			toLocation == enums.WarehouseLocationDestination &&
			fromStatus == enums.WarehouseStatusShipped &&
			toStatus == enums.WarehouseStatusReceived
	}
	return toStatus.Rank() == fromStatus.Rank()+1
}

// DeliveryAssignable reports whether the shipment has cleared the
// destination-side gate for delivery-driver assignment: parcel physically at
// the destination warehouse and customer status at customs or later.
func DeliveryAssignable(
	status enums.ShipmentStatus,
	warehouseStatus enums.WarehouseStatus,
	location enums.WarehouseLocation,
) bool {
	return !status.IsTerminal() &&
		status.AtOrPast(enums.ShipmentStatusCustoms) &&
		location == enums.WarehouseLocationDestination &&
		warehouseStatus.AtOrPast(enums.WarehouseStatusReceived)
}

// Presentation is the authoritative per-status display and notification
// content. Dashboards and mobile screens read this table; they never encode
// their own copies.
type Presentation struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	NotifyTitle string `json:"notify_title"`
	NotifyBody  string `json:"notify_body"`
}

var presentationByStatus = map[enums.ShipmentStatus]Presentation{
	enums.ShipmentStatusBooked: {
		Label:       "Booked",
		Color:       "#6B7280",
		NotifyTitle: "Booking confirmed",
		NotifyBody:  "Your parcel has been booked and is awaiting pickup.",
	},
	enums.ShipmentStatusPickedUp: {
		Label:       "Picked up",
		Color:       "#3B82F6",
		NotifyTitle: "Parcel picked up",
		NotifyBody:  "Your parcel has been collected by our driver.",
	},
	enums.ShipmentStatusInTransit: {
		Label:       "In transit",
		Color:       "#8B5CF6",
		NotifyTitle: "Parcel in transit",
		NotifyBody:  "Your parcel is on its way to Ghana.",
	},
	enums.ShipmentStatusCustoms: {
		Label:       "At customs",
		Color:       "#F59E0B",
		NotifyTitle: "Customs clearance",
		NotifyBody:  "Your parcel is going through customs clearance.",
	},
	enums.ShipmentStatusOutForDelivery: {
		Label:       "Out for delivery",
		Color:       "#10B981",
		NotifyTitle: "Out for delivery",
		NotifyBody:  "Your parcel is out for delivery today.",
	},
	enums.ShipmentStatusDelivered: {
		Label:       "Delivered",
		Color:       "#059669",
		NotifyTitle: "Parcel delivered",
		NotifyBody:  "Your parcel has been delivered. Thank you for shipping with us.",
	},
	enums.ShipmentStatusCancelled: {
		Label:       "Cancelled",
		Color:       "#EF4444",
		NotifyTitle: "Shipment cancelled",
		NotifyBody:  "Your shipment has been cancelled. Contact support for details.",
	},
}

// PresentationFor returns the display entry for a status. Unknown statuses
// fall back to a neutral entry rather than panicking in a render path.
func PresentationFor(status enums.ShipmentStatus) Presentation {
	if p, ok := presentationByStatus[status]; ok {
		return p
	}
	return Presentation{Label: string(status), Color: "#6B7280"}
}

// sizeClassFor derives the handling size class captured at booking.
var sizeClassFor = map[enums.ParcelType]enums.SizeClass{
	enums.ParcelTypeSmallBox:     enums.SizeClassSmall,
	enums.ParcelTypeCustomSmall:  enums.SizeClassSmall,
	enums.ParcelTypeMediumBox:    enums.SizeClassMedium,
	enums.ParcelTypeCustomMedium: enums.SizeClassMedium,
	enums.ParcelTypeLargeBox:     enums.SizeClassLarge,
	enums.ParcelTypeCustomLarge:  enums.SizeClassLarge,
	enums.ParcelTypeDrum:         enums.SizeClassLarge,
	enums.ParcelTypeTV:           enums.SizeClassOversize,
}
