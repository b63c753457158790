package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
)

// PriceEntry maps a parcel type to its current unit price. Exactly one row
// exists per type; writes are upserts keyed by the type. Catalog changes are
// prospective only: shipments capture the price at booking time.
type PriceEntry struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ParcelType  enums.ParcelType `gorm:"column:parcel_type;type:text;uniqueIndex;not null"`
	Label       string           `gorm:"column:label;not null"`
	AmountPence int64            `gorm:"column:amount_pence;not null"`
	Currency    enums.Currency   `gorm:"column:currency;type:text;not null;default:'GBP'"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
