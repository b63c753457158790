package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postin54-boop/mani-me-sub002/internal/drivers"
	"github.com/postin54-boop/mani-me-sub002/internal/shipments"
	"github.com/postin54-boop/mani-me-sub002/pkg/db/models"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox"
)

type fakeShipmentRepo struct {
	byID         map[uuid.UUID]*models.Shipment
	fillPickupFn func(ctx context.Context, id, driverID uuid.UUID, at time.Time) (bool, error)
}

func newFakeShipmentRepo(list ...*models.Shipment) *fakeShipmentRepo {
	f := &fakeShipmentRepo{byID: map[uuid.UUID]*models.Shipment{}}
	for _, s := range list {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeShipmentRepo) WithTx(tx *gorm.DB) shipments.Repository { return f }

func (f *fakeShipmentRepo) Create(ctx context.Context, shipment *models.Shipment) error {
	shipment.ID = uuid.New()
	f.byID[shipment.ID] = shipment
	return nil
}

func (f *fakeShipmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	if s, ok := f.byID[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeShipmentRepo) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeShipmentRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Shipment, error) {
	return nil, nil
}

func (f *fakeShipmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.ShipmentStatus, at time.Time) (bool, error) {
	return false, nil
}

func (f *fakeShipmentRepo) AdvanceWarehouse(ctx context.Context, id uuid.UUID, from enums.WarehouseStatus, fromLoc enums.WarehouseLocation, to enums.WarehouseStatus, toLoc enums.WarehouseLocation) (bool, error) {
	return false, nil
}

func (f *fakeShipmentRepo) FillPickupSlot(ctx context.Context, id, driverID uuid.UUID, at time.Time) (bool, error) {
	if f.fillPickupFn != nil {
		return f.fillPickupFn(ctx, id, driverID, at)
	}
	s, ok := f.byID[id]
	if !ok || s.PickupDriverID != nil {
		return false, nil
	}
	s.PickupDriverID = &driverID
	s.PickupAssignedAt = &at
	return true, nil
}

func (f *fakeShipmentRepo) FillDeliverySlot(ctx context.Context, id, driverID uuid.UUID, at time.Time) (bool, error) {
	s, ok := f.byID[id]
	if !ok || s.DeliveryDriverID != nil {
		return false, nil
	}
	s.DeliveryDriverID = &driverID
	s.DeliveryAssignedAt = &at
	return true, nil
}

func (f *fakeShipmentRepo) ClearPickupSlot(ctx context.Context, id uuid.UUID) (bool, error) {
	s, ok := f.byID[id]
	if !ok || s.PickupDriverID == nil {
		return false, nil
	}
	s.PickupDriverID = nil
	s.PickupAssignedAt = nil
	return true, nil
}

func (f *fakeShipmentRepo) ClearDeliverySlot(ctx context.Context, id uuid.UUID) (bool, error) {
	s, ok := f.byID[id]
	if !ok || s.DeliveryDriverID == nil {
		return false, nil
	}
	s.DeliveryDriverID = nil
	s.DeliveryAssignedAt = nil
	return true, nil
}

func (f *fakeShipmentRepo) ListPendingPickup(ctx context.Context) ([]models.Shipment, error) {
	var out []models.Shipment
	for _, s := range f.byID {
		if s.Status == enums.ShipmentStatusBooked && s.PickupDriverID == nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeShipmentRepo) ListPendingDelivery(ctx context.Context) ([]models.Shipment, error) {
	var out []models.Shipment
	for _, s := range f.byID {
		if s.DeliveryDriverID == nil && shipments.DeliveryAssignable(s.Status, s.WarehouseStatus, s.WarehouseLocation) {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeDriverRepo struct {
	byID map[uuid.UUID]*models.Driver
}

func newFakeDriverRepo(list ...*models.Driver) *fakeDriverRepo {
	f := &fakeDriverRepo{byID: map[uuid.UUID]*models.Driver{}}
	for _, d := range list {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		f.byID[d.ID] = d
	}
	return f
}

func (f *fakeDriverRepo) WithTx(tx *gorm.DB) drivers.Repository { return f }

func (f *fakeDriverRepo) Create(ctx context.Context, driver *models.Driver) error { return nil }

func (f *fakeDriverRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	if d, ok := f.byID[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDriverRepo) List(ctx context.Context, filter drivers.ListFilter) ([]models.Driver, error) {
	return nil, nil
}

func (f *fakeDriverRepo) Deactivate(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return false, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fakeOutbox struct {
	events []outbox.DomainEvent
}

func (f *fakeOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

func pickupDriver() *models.Driver {
	return &models.Driver{ID: uuid.New(), FullName: "A", Phone: "1", RegionScope: enums.RegionScopeOriginPickup, Active: true}
}

func deliveryDriver() *models.Driver {
	return &models.Driver{ID: uuid.New(), FullName: "B", Phone: "2", RegionScope: enums.RegionScopeDestinationDelivery, Active: true}
}

func bookedShipment() *models.Shipment {
	return &models.Shipment{
		ID:                uuid.New(),
		TrackingNumber:    "MM-ASSIGN0001",
		Status:            enums.ShipmentStatusBooked,
		WarehouseStatus:   enums.WarehouseStatusNone,
		WarehouseLocation: enums.WarehouseLocationOrigin,
		StatusUpdatedAt:   time.Now(),
	}
}

func clearedShipment() *models.Shipment {
	s := bookedShipment()
	s.Status = enums.ShipmentStatusCustoms
	s.WarehouseStatus = enums.WarehouseStatusReceived
	s.WarehouseLocation = enums.WarehouseLocationDestination
	return s
}

func newTestService(t *testing.T, shipmentRepo shipments.Repository, driverRepo drivers.Repository, sink outboxPublisher) Service {
	t.Helper()
	svc, err := NewService(shipmentRepo, driverRepo, fakeTxRunner{}, sink)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestAssignPickup_Success(t *testing.T) {
	shipment := bookedShipment()
	driver := pickupDriver()
	repo := newFakeShipmentRepo(shipment)
	sink := &fakeOutbox{}
	svc := newTestService(t, repo, newFakeDriverRepo(driver), sink)

	updated, err := svc.AssignPickup(context.Background(), AssignInput{ShipmentID: shipment.ID, DriverID: driver.ID})
	if err != nil {
		t.Fatalf("AssignPickup error: %v", err)
	}
	if updated.PickupDriverID == nil || *updated.PickupDriverID != driver.ID {
		t.Fatalf("pickup driver not set: %+v", updated)
	}
	if updated.PickupAssignedAt == nil {
		t.Fatal("assignment timestamp not set")
	}
	if len(sink.events) != 1 || sink.events[0].EventType != enums.EventShipmentDriverAssigned {
		t.Fatalf("expected driver_assigned event, got %+v", sink.events)
	}
}

func TestAssignPickup_InactiveDriverConflict(t *testing.T) {
	shipment := bookedShipment()
	driver := pickupDriver()
	driver.Active = false
	svc := newTestService(t, newFakeShipmentRepo(shipment), newFakeDriverRepo(driver), &fakeOutbox{})

	_, err := svc.AssignPickup(context.Background(), AssignInput{ShipmentID: shipment.ID, DriverID: driver.ID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for inactive driver, got %v", err)
	}
}

func TestAssignPickup_WrongScopeConflict(t *testing.T) {
	shipment := bookedShipment()
	driver := deliveryDriver()
	svc := newTestService(t, newFakeShipmentRepo(shipment), newFakeDriverRepo(driver), &fakeOutbox{})

	_, err := svc.AssignPickup(context.Background(), AssignInput{ShipmentID: shipment.ID, DriverID: driver.ID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for wrong scope, got %v", err)
	}
}

func TestAssignPickup_PastPickupRejected(t *testing.T) {
	shipment := bookedShipment()
	shipment.Status = enums.ShipmentStatusInTransit
	driver := pickupDriver()
	svc := newTestService(t, newFakeShipmentRepo(shipment), newFakeDriverRepo(driver), &fakeOutbox{})

	_, err := svc.AssignPickup(context.Background(), AssignInput{ShipmentID: shipment.ID, DriverID: driver.ID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict past pickup, got %v", err)
	}
}

func TestAssignPickup_SlotRaceLoser(t *testing.T) {
	shipment := bookedShipment()
	driver := pickupDriver()
	repo := newFakeShipmentRepo(shipment)
	repo.fillPickupFn = func(ctx context.Context, id, driverID uuid.UUID, at time.Time) (bool, error) {
		// another admin filled the slot between the read and the update
		return false, nil
	}
	svc := newTestService(t, repo, newFakeDriverRepo(driver), &fakeOutbox{})

	_, err := svc.AssignPickup(context.Background(), AssignInput{ShipmentID: shipment.ID, DriverID: driver.ID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for slot race loser, got %v", err)
	}
}

func TestAssignDelivery_GateNotCleared(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(s *models.Shipment)
	}{
		{
			name:   "warehouse none",
			mutate: func(s *models.Shipment) { s.WarehouseStatus = enums.WarehouseStatusNone; s.WarehouseLocation = enums.WarehouseLocationDestination },
		},
		{
			name:   "received at wrong location",
			mutate: func(s *models.Shipment) { s.WarehouseLocation = enums.WarehouseLocationOrigin },
		},
		{
			name:   "status before customs",
			mutate: func(s *models.Shipment) { s.Status = enums.ShipmentStatusInTransit },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			shipment := clearedShipment()
			tc.mutate(shipment)
			driver := deliveryDriver()
			svc := newTestService(t, newFakeShipmentRepo(shipment), newFakeDriverRepo(driver), &fakeOutbox{})

			_, err := svc.AssignDelivery(context.Background(), AssignInput{ShipmentID: shipment.ID, DriverID: driver.ID})
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodePolicy {
				t.Fatalf("expected policy rejection, got %v", err)
			}
		})
	}
}

func TestAssignDelivery_Success(t *testing.T) {
	shipment := clearedShipment()
	driver := deliveryDriver()
	sink := &fakeOutbox{}
	svc := newTestService(t, newFakeShipmentRepo(shipment), newFakeDriverRepo(driver), sink)

	updated, err := svc.AssignDelivery(context.Background(), AssignInput{ShipmentID: shipment.ID, DriverID: driver.ID})
	if err != nil {
		t.Fatalf("AssignDelivery error: %v", err)
	}
	if updated.DeliveryDriverID == nil || *updated.DeliveryDriverID != driver.ID {
		t.Fatalf("delivery driver not set: %+v", updated)
	}
}

func TestUnassign_PickupAfterPickedUpRejected(t *testing.T) {
	shipment := bookedShipment()
	driverID := uuid.New()
	shipment.Status = enums.ShipmentStatusPickedUp
	shipment.PickupDriverID = &driverID
	svc := newTestService(t, newFakeShipmentRepo(shipment), newFakeDriverRepo(), &fakeOutbox{})

	_, err := svc.Unassign(context.Background(), UnassignInput{ShipmentID: shipment.ID, Slot: SlotPickup})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict after pickup, got %v", err)
	}
}

func TestUnassign_PickupBeforePickup(t *testing.T) {
	shipment := bookedShipment()
	driverID := uuid.New()
	shipment.PickupDriverID = &driverID
	sink := &fakeOutbox{}
	svc := newTestService(t, newFakeShipmentRepo(shipment), newFakeDriverRepo(), sink)

	updated, err := svc.Unassign(context.Background(), UnassignInput{ShipmentID: shipment.ID, Slot: SlotPickup})
	if err != nil {
		t.Fatalf("Unassign error: %v", err)
	}
	if updated.PickupDriverID != nil {
		t.Fatal("pickup slot should be cleared")
	}
	if len(sink.events) != 1 || sink.events[0].EventType != enums.EventShipmentDriverUnassigned {
		t.Fatalf("expected driver_unassigned event, got %+v", sink.events)
	}
}

func TestUnassign_EmptySlot(t *testing.T) {
	shipment := bookedShipment()
	svc := newTestService(t, newFakeShipmentRepo(shipment), newFakeDriverRepo(), &fakeOutbox{})

	_, err := svc.Unassign(context.Background(), UnassignInput{ShipmentID: shipment.ID, Slot: SlotPickup})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for empty slot, got %v", err)
	}
}

func TestPendingQueues(t *testing.T) {
	booked := bookedShipment()
	cleared := clearedShipment()
	svc := newTestService(t, newFakeShipmentRepo(booked, cleared), newFakeDriverRepo(), &fakeOutbox{})

	pickup, err := svc.PendingPickup(context.Background())
	if err != nil {
		t.Fatalf("PendingPickup error: %v", err)
	}
	if len(pickup) != 1 || pickup[0].ID != booked.ID {
		t.Fatalf("unexpected pending pickup queue: %+v", pickup)
	}

	delivery, err := svc.PendingDelivery(context.Background())
	if err != nil {
		t.Fatalf("PendingDelivery error: %v", err)
	}
	if len(delivery) != 1 || delivery[0].ID != cleared.ID {
		t.Fatalf("unexpected pending delivery queue: %+v", delivery)
	}
}
