package shipments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postin54-boop/mani-me-sub002/pkg/db/models"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
)

// Repository manages shipment persistence. Every mutation of status, the
// warehouse sub-track, or a driver slot is a conditional UPDATE whose WHERE
// clause re-checks the state the caller saw; a false return means another
// writer got there first.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, shipment *models.Shipment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Shipment, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Shipment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.ShipmentStatus, at time.Time) (bool, error)
	AdvanceWarehouse(ctx context.Context, id uuid.UUID, from enums.WarehouseStatus, fromLoc enums.WarehouseLocation, to enums.WarehouseStatus, toLoc enums.WarehouseLocation) (bool, error)
	FillPickupSlot(ctx context.Context, id, driverID uuid.UUID, at time.Time) (bool, error)
	FillDeliverySlot(ctx context.Context, id, driverID uuid.UUID, at time.Time) (bool, error)
	ClearPickupSlot(ctx context.Context, id uuid.UUID) (bool, error)
	ClearDeliverySlot(ctx context.Context, id uuid.UUID) (bool, error)
	ListPendingPickup(ctx context.Context) ([]models.Shipment, error)
	ListPendingDelivery(ctx context.Context) ([]models.Shipment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a shipment repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, shipment *models.Shipment) error {
	return r.db.WithContext(ctx).Create(shipment).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&shipment).Error; err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *repository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := r.db.WithContext(ctx).Where("tracking_number = ?", trackingNumber).First(&shipment).Error; err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Shipment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var shipments []models.Shipment
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

// UpdateStatus moves status from → to and writes status_updated_at in the
// same UPDATE, so a status is never observable without its timestamp.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.ShipmentStatus, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":            to,
		"status_updated_at": at,
	}
	switch to {
	case enums.ShipmentStatusDelivered:
		updates["delivered_at"] = at
	case enums.ShipmentStatusCancelled:
		updates["cancelled_at"] = at
	}
	result := r.db.WithContext(ctx).
		Model(&models.Shipment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) AdvanceWarehouse(ctx context.Context, id uuid.UUID, from enums.WarehouseStatus, fromLoc enums.WarehouseLocation, to enums.WarehouseStatus, toLoc enums.WarehouseLocation) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Shipment{}).
		Where("id = ? AND warehouse_status = ? AND warehouse_location = ?", id, from, fromLoc).
		Updates(map[string]any{
			"warehouse_status":   to,
			"warehouse_location": toLoc,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FillPickupSlot assigns only while the slot is empty; the second concurrent
// assignment sees false instead of overwriting.
func (r *repository) FillPickupSlot(ctx context.Context, id, driverID uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Shipment{}).
		Where("id = ? AND pickup_driver_id IS NULL", id).
		Updates(map[string]any{
			"pickup_driver_id":   driverID,
			"pickup_assigned_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) FillDeliverySlot(ctx context.Context, id, driverID uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Shipment{}).
		Where("id = ? AND delivery_driver_id IS NULL", id).
		Updates(map[string]any{
			"delivery_driver_id":   driverID,
			"delivery_assigned_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ClearPickupSlot(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Shipment{}).
		Where("id = ? AND pickup_driver_id IS NOT NULL", id).
		Updates(map[string]any{
			"pickup_driver_id":   nil,
			"pickup_assigned_at": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ClearDeliverySlot(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Shipment{}).
		Where("id = ? AND delivery_driver_id IS NOT NULL", id).
		Updates(map[string]any{
			"delivery_driver_id":   nil,
			"delivery_assigned_at": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ListPendingPickup(ctx context.Context) ([]models.Shipment, error) {
	var shipments []models.Shipment
	err := r.db.WithContext(ctx).
		Where("status = ? AND pickup_driver_id IS NULL", enums.ShipmentStatusBooked).
		Order("created_at ASC").
		Find(&shipments).Error
	if err != nil {
		return nil, err
	}
	return shipments, nil
}

func (r *repository) ListPendingDelivery(ctx context.Context) ([]models.Shipment, error) {
	var shipments []models.Shipment
	err := r.db.WithContext(ctx).
		Where("delivery_driver_id IS NULL").
		Where("warehouse_location = ?", enums.WarehouseLocationDestination).
		Where("warehouse_status IN ?", []enums.WarehouseStatus{
			enums.WarehouseStatusReceived,
			enums.WarehouseStatusSorted,
			enums.WarehouseStatusPacked,
			enums.WarehouseStatusShipped,
		}).
		Where("status IN ?", []enums.ShipmentStatus{
			enums.ShipmentStatusCustoms,
			enums.ShipmentStatusOutForDelivery,
		}).
		Order("created_at ASC").
		Find(&shipments).Error
	if err != nil {
		return nil, err
	}
	return shipments, nil
}
