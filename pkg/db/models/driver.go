package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
)

// Driver is a courier registered on exactly one side of the corridor.
// Drivers are deactivated, never deleted, so shipment references stay intact.
type Driver struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FullName      string            `gorm:"column:full_name;not null"`
	Phone         string            `gorm:"column:phone;not null"`
	RegionScope   enums.RegionScope `gorm:"column:region_scope;type:text;not null"`
	Active        bool              `gorm:"column:active;not null;default:true"`
	DeactivatedAt *time.Time        `gorm:"column:deactivated_at"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
