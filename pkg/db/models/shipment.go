package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
)

// Shipment is a single cross-border parcel booking tracked end to end.
// Driver slots and status fields are only ever mutated through conditional
// updates so that concurrent writers race on the database, not in memory.
type Shipment struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TrackingNumber string    `gorm:"column:tracking_number;uniqueIndex;not null"`

	SenderName      string `gorm:"column:sender_name;not null"`
	SenderPhone     string `gorm:"column:sender_phone;not null"`
	SenderAddress   string `gorm:"column:sender_address;not null"`
	SenderCity      string `gorm:"column:sender_city;not null"`
	ReceiverName    string `gorm:"column:receiver_name;not null"`
	ReceiverPhone   string `gorm:"column:receiver_phone;not null"`
	ReceiverAddress string `gorm:"column:receiver_address;not null"`
	ReceiverCity    string `gorm:"column:receiver_city;not null"`

	ParcelType enums.ParcelType `gorm:"column:parcel_type;type:text;not null"`
	WeightKg   float64          `gorm:"column:weight_kg;not null;default:0"`
	SizeClass  enums.SizeClass  `gorm:"column:size_class;type:text;not null"`

	Currency        enums.Currency      `gorm:"column:currency;type:text;not null;default:'GBP'"`
	UnitPricePence  int64               `gorm:"column:unit_price_pence;not null"`
	PromoCode       *string             `gorm:"column:promo_code"`
	DiscountPence   int64               `gorm:"column:discount_pence;not null;default:0"`
	FinalPricePence int64               `gorm:"column:final_price_pence;not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'cash'"`

	Status            enums.ShipmentStatus    `gorm:"column:status;type:text;not null;default:'booked'"`
	WarehouseStatus   enums.WarehouseStatus   `gorm:"column:warehouse_status;type:text;not null;default:'none'"`
	WarehouseLocation enums.WarehouseLocation `gorm:"column:warehouse_location;type:text;not null;default:'origin'"`

	PickupDriverID     *uuid.UUID `gorm:"column:pickup_driver_id;type:uuid"`
	DeliveryDriverID   *uuid.UUID `gorm:"column:delivery_driver_id;type:uuid"`
	PickupAssignedAt   *time.Time `gorm:"column:pickup_assigned_at"`
	DeliveryAssignedAt *time.Time `gorm:"column:delivery_assigned_at"`

	StatusUpdatedAt time.Time  `gorm:"column:status_updated_at;not null"`
	DeliveredAt     *time.Time `gorm:"column:delivered_at"`
	CancelledAt     *time.Time `gorm:"column:cancelled_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
