package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
)

// SettlementReport is a driver's self-reported cash collection for one shift.
// Expected and discrepancy amounts are always recomputed server-side; the
// report resolves exactly once and is never reopened.
type SettlementReport struct {
	ID                uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DriverID          uuid.UUID              `gorm:"column:driver_id;type:uuid;not null"`
	ReportedPence     int64                  `gorm:"column:reported_pence;not null"`
	ExpectedPence     int64                  `gorm:"column:expected_pence;not null"`
	DiscrepancyPence  int64                  `gorm:"column:discrepancy_pence;not null"`
	PhotoRef          string                 `gorm:"column:photo_ref;not null"`
	Currency          enums.Currency         `gorm:"column:currency;type:text;not null;default:'GHS'"`
	ShiftDate         time.Time              `gorm:"column:shift_date;not null"`
	Status            enums.SettlementStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	SubmittedAt       time.Time              `gorm:"column:submitted_at;not null"`
	ReviewerID        *uuid.UUID             `gorm:"column:reviewer_id;type:uuid"`
	ReviewNotes       *string                `gorm:"column:review_notes"`
	ResolvedAt        *time.Time             `gorm:"column:resolved_at"`
	CoveredShipments  []SettlementShipment   `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// SettlementShipment links a settlement report to one shipment it covers.
type SettlementShipment struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReportID   uuid.UUID `gorm:"column:report_id;type:uuid;not null;index"`
	ShipmentID uuid.UUID `gorm:"column:shipment_id;type:uuid;not null"`
	AmountPence int64    `gorm:"column:amount_pence;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
