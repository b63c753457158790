package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postin54-boop/mani-me-sub002/internal/drivers"
	"github.com/postin54-boop/mani-me-sub002/internal/shipments"
	"github.com/postin54-boop/mani-me-sub002/pkg/db/models"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Slot names the driver slot an operation targets.
type Slot string

const (
	SlotPickup   Slot = "pickup"
	SlotDelivery Slot = "delivery"
)

// Service attaches drivers to shipments. Slot fills are conditional updates,
// so two admins assigning the same slot concurrently produce one winner and
// one conflict, never a silent overwrite.
type Service interface {
	AssignPickup(ctx context.Context, input AssignInput) (*models.Shipment, error)
	AssignDelivery(ctx context.Context, input AssignInput) (*models.Shipment, error)
	Unassign(ctx context.Context, input UnassignInput) (*models.Shipment, error)
	PendingPickup(ctx context.Context) ([]models.Shipment, error)
	PendingDelivery(ctx context.Context) ([]models.Shipment, error)
}

type service struct {
	shipmentRepo shipments.Repository
	driverRepo   drivers.Repository
	tx           txRunner
	outbox       outboxPublisher
}

// AssignInput fills one driver slot on a shipment.
type AssignInput struct {
	ShipmentID uuid.UUID
	DriverID   uuid.UUID
	Actor      *outbox.ActorRef
}

// UnassignInput clears one driver slot on a shipment.
type UnassignInput struct {
	ShipmentID uuid.UUID
	Slot       Slot
	Actor      *outbox.ActorRef
}

// NewService wires the assignment coordinator with its dependencies.
func NewService(shipmentRepo shipments.Repository, driverRepo drivers.Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if shipmentRepo == nil {
		return nil, fmt.Errorf("shipments repository required")
	}
	if driverRepo == nil {
		return nil, fmt.Errorf("drivers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		shipmentRepo: shipmentRepo,
		driverRepo:   driverRepo,
		tx:           tx,
		outbox:       outboxSvc,
	}, nil
}

func (s *service) AssignPickup(ctx context.Context, input AssignInput) (*models.Shipment, error) {
	return s.assign(ctx, input, SlotPickup)
}

func (s *service) AssignDelivery(ctx context.Context, input AssignInput) (*models.Shipment, error) {
	return s.assign(ctx, input, SlotDelivery)
}

func (s *service) assign(ctx context.Context, input AssignInput, slot Slot) (*models.Shipment, error) {
	if input.ShipmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id required")
	}
	if input.DriverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}

	var updated *models.Shipment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		shipmentRepo := s.shipmentRepo.WithTx(tx)
		driverRepo := s.driverRepo.WithTx(tx)

		shipment, err := shipmentRepo.FindByID(ctx, input.ShipmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
		}

		driver, err := driverRepo.FindByID(ctx, input.DriverID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver")
		}
		if !driver.Active {
			return pkgerrors.New(pkgerrors.CodeConflict, "driver is deactivated")
		}

		var scope enums.RegionScope
		switch slot {
		case SlotPickup:
			scope = enums.RegionScopeOriginPickup
			if driver.RegionScope != scope {
				return pkgerrors.New(pkgerrors.CodeConflict, "driver is not in the pickup pool")
			}
			if shipment.Status.IsTerminal() {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "shipment is already closed")
			}
			if shipment.Status.AtOrPast(enums.ShipmentStatusInTransit) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "shipment is already past pickup")
			}
		case SlotDelivery:
			scope = enums.RegionScopeDestinationDelivery
			if driver.RegionScope != scope {
				return pkgerrors.New(pkgerrors.CodeConflict, "driver is not in the delivery pool")
			}
			if !shipments.DeliveryAssignable(shipment.Status, shipment.WarehouseStatus, shipment.WarehouseLocation) {
				return pkgerrors.New(pkgerrors.CodePolicy, "shipment has not cleared the destination warehouse")
			}
		}

		now := time.Now()
		var filled bool
		switch slot {
		case SlotPickup:
			filled, err = shipmentRepo.FillPickupSlot(ctx, shipment.ID, driver.ID, now)
		case SlotDelivery:
			filled, err = shipmentRepo.FillDeliverySlot(ctx, shipment.ID, driver.ID, now)
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fill driver slot")
		}
		if !filled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s slot is already filled", slot))
		}

		switch slot {
		case SlotPickup:
			shipment.PickupDriverID = &driver.ID
			shipment.PickupAssignedAt = &now
		case SlotDelivery:
			shipment.DeliveryDriverID = &driver.ID
			shipment.DeliveryAssignedAt = &now
		}
		updated = shipment

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventShipmentDriverAssigned,
			AggregateType: enums.AggregateShipment,
			AggregateID:   shipment.ID,
			Version:       1,
			Actor:         input.Actor,
			Data: payloads.ShipmentDriverAssignedEvent{
				ShipmentID:     shipment.ID,
				TrackingNumber: shipment.TrackingNumber,
				DriverID:       driver.ID,
				Scope:          scope,
				AssignedAt:     now,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Unassign(ctx context.Context, input UnassignInput) (*models.Shipment, error) {
	if input.ShipmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id required")
	}
	if input.Slot != SlotPickup && input.Slot != SlotDelivery {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown slot %q", input.Slot))
	}

	var updated *models.Shipment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		shipmentRepo := s.shipmentRepo.WithTx(tx)
		shipment, err := shipmentRepo.FindByID(ctx, input.ShipmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
		}

		var driverID *uuid.UUID
		var scope enums.RegionScope
		switch input.Slot {
		case SlotPickup:
			// once the parcel is picked up the driver has acted
			if shipment.Status.AtOrPast(enums.ShipmentStatusPickedUp) || shipment.Status.IsTerminal() {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "pickup driver already acted on this shipment")
			}
			driverID = shipment.PickupDriverID
			scope = enums.RegionScopeOriginPickup
		case SlotDelivery:
			if shipment.Status.AtOrPast(enums.ShipmentStatusOutForDelivery) || shipment.Status.IsTerminal() {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery driver already acted on this shipment")
			}
			driverID = shipment.DeliveryDriverID
			scope = enums.RegionScopeDestinationDelivery
		}
		if driverID == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s slot is empty", input.Slot))
		}

		var cleared bool
		switch input.Slot {
		case SlotPickup:
			cleared, err = shipmentRepo.ClearPickupSlot(ctx, shipment.ID)
		case SlotDelivery:
			cleared, err = shipmentRepo.ClearDeliverySlot(ctx, shipment.ID)
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear driver slot")
		}
		if !cleared {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s slot already cleared", input.Slot))
		}

		unassignedID := *driverID
		switch input.Slot {
		case SlotPickup:
			shipment.PickupDriverID = nil
			shipment.PickupAssignedAt = nil
		case SlotDelivery:
			shipment.DeliveryDriverID = nil
			shipment.DeliveryAssignedAt = nil
		}
		updated = shipment

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventShipmentDriverUnassigned,
			AggregateType: enums.AggregateShipment,
			AggregateID:   shipment.ID,
			Version:       1,
			Actor:         input.Actor,
			Data: payloads.ShipmentDriverUnassignedEvent{
				ShipmentID:     shipment.ID,
				TrackingNumber: shipment.TrackingNumber,
				DriverID:       unassignedID,
				Scope:          scope,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) PendingPickup(ctx context.Context) ([]models.Shipment, error) {
	out, err := s.shipmentRepo.ListPendingPickup(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending pickup")
	}
	return out, nil
}

func (s *service) PendingDelivery(ctx context.Context) ([]models.Shipment, error) {
	out, err := s.shipmentRepo.ListPendingDelivery(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending delivery")
	}
	return out, nil
}
