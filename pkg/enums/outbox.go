package enums

import "fmt"

// OutboxEventType names the domain events emitted through the outbox.
type OutboxEventType string

const (
	EventShipmentBooked            OutboxEventType = "shipment.booked"
	EventShipmentStatusChanged     OutboxEventType = "shipment.status_changed"
	EventShipmentWarehouseAdvanced OutboxEventType = "shipment.warehouse_advanced"
	EventShipmentDriverAssigned    OutboxEventType = "shipment.driver_assigned"
	EventShipmentDriverUnassigned  OutboxEventType = "shipment.driver_unassigned"
	EventPromoRedeemed             OutboxEventType = "promo.redeemed"
	EventSettlementOpened          OutboxEventType = "settlement.opened"
	EventSettlementResolved        OutboxEventType = "settlement.resolved"
)

var validOutboxEventTypes = []OutboxEventType{
	EventShipmentBooked,
	EventShipmentStatusChanged,
	EventShipmentWarehouseAdvanced,
	EventShipmentDriverAssigned,
	EventShipmentDriverUnassigned,
	EventPromoRedeemed,
	EventSettlementOpened,
	EventSettlementResolved,
}

// String implements fmt.Stringer.
func (o OutboxEventType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OutboxEventType.
func (o OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into an OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateShipment         OutboxAggregateType = "shipment"
	AggregatePromoCode        OutboxAggregateType = "promo_code"
	AggregateSettlementReport OutboxAggregateType = "settlement_report"
)

var validOutboxAggregateTypes = []OutboxAggregateType{
	AggregateShipment,
	AggregatePromoCode,
	AggregateSettlementReport,
}

// String implements fmt.Stringer.
func (o OutboxAggregateType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OutboxAggregateType.
func (o OutboxAggregateType) IsValid() bool {
	for _, candidate := range validOutboxAggregateTypes {
		if candidate == o {
			return true
		}
	}
	return false
}
