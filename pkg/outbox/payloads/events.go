package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
)

// ShipmentBookedEvent signals a new booking with its captured price.
type ShipmentBookedEvent struct {
	ShipmentID      uuid.UUID           `json:"shipment_id"`
	TrackingNumber  string              `json:"tracking_number"`
	ParcelType      enums.ParcelType    `json:"parcel_type"`
	FinalPricePence int64               `json:"final_price_pence"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	ReceiverPhone   string              `json:"receiver_phone"`
}

// ShipmentStatusChangedEvent is emitted on every successful status
// transition. The notify worker turns it into a customer push.
type ShipmentStatusChangedEvent struct {
	ShipmentID     uuid.UUID            `json:"shipment_id"`
	TrackingNumber string               `json:"tracking_number"`
	FromStatus     enums.ShipmentStatus `json:"from_status"`
	ToStatus       enums.ShipmentStatus `json:"to_status"`
	ReceiverPhone  string               `json:"receiver_phone"`
	ChangedAt      time.Time            `json:"changed_at"`
}

// ShipmentWarehouseAdvancedEvent reports a warehouse sub-track move.
type ShipmentWarehouseAdvancedEvent struct {
	ShipmentID     uuid.UUID               `json:"shipment_id"`
	TrackingNumber string                  `json:"tracking_number"`
	FromStatus     enums.WarehouseStatus   `json:"from_status"`
	ToStatus       enums.WarehouseStatus   `json:"to_status"`
	Location       enums.WarehouseLocation `json:"location"`
}

// ShipmentDriverAssignedEvent is emitted when a slot is filled.
type ShipmentDriverAssignedEvent struct {
	ShipmentID     uuid.UUID         `json:"shipment_id"`
	TrackingNumber string            `json:"tracking_number"`
	DriverID       uuid.UUID         `json:"driver_id"`
	Scope          enums.RegionScope `json:"scope"`
	AssignedAt     time.Time         `json:"assigned_at"`
}

// ShipmentDriverUnassignedEvent is emitted when a slot is cleared.
type ShipmentDriverUnassignedEvent struct {
	ShipmentID     uuid.UUID         `json:"shipment_id"`
	TrackingNumber string            `json:"tracking_number"`
	DriverID       uuid.UUID         `json:"driver_id"`
	Scope          enums.RegionScope `json:"scope"`
}

// PromoRedeemedEvent records a successful discount application.
type PromoRedeemedEvent struct {
	PromoCodeID   uuid.UUID `json:"promo_code_id"`
	Code          string    `json:"code"`
	SubtotalPence int64     `json:"subtotal_pence"`
	DiscountPence int64     `json:"discount_pence"`
	FinalPence    int64     `json:"final_pence"`
}

// SettlementOpenedEvent is emitted when a driver submits a shift report.
type SettlementOpenedEvent struct {
	ReportID         uuid.UUID `json:"report_id"`
	DriverID         uuid.UUID `json:"driver_id"`
	ReportedPence    int64     `json:"reported_pence"`
	ExpectedPence    int64     `json:"expected_pence"`
	DiscrepancyPence int64     `json:"discrepancy_pence"`
	ShiftDate        time.Time `json:"shift_date"`
}

// SettlementResolvedEvent is emitted when an admin approves or rejects.
type SettlementResolvedEvent struct {
	ReportID   uuid.UUID              `json:"report_id"`
	DriverID   uuid.UUID              `json:"driver_id"`
	Decision   enums.SettlementStatus `json:"decision"`
	ReviewerID uuid.UUID              `json:"reviewer_id"`
	ResolvedAt time.Time              `json:"resolved_at"`
}
