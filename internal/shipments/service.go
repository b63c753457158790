package shipments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postin54-boop/mani-me-sub002/internal/pricing"
	"github.com/postin54-boop/mani-me-sub002/internal/promo"
	"github.com/postin54-boop/mani-me-sub002/pkg/db/models"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
	"github.com/postin54-boop/mani-me-sub002/pkg/metrics"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// promoRedeemer is the slice of the promo engine bookings consume.
type promoRedeemer interface {
	Redeem(ctx context.Context, tx *gorm.DB, input promo.RedeemInput) (*promo.Application, error)
}

// Service owns the shipment lifecycle: booking, the customer-facing status
// machine, the warehouse sub-track, and the public tracking view.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Shipment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Shipment, error)
	Track(ctx context.Context, trackingNumber string) (*TrackView, error)
	TransitionStatus(ctx context.Context, input TransitionInput) (*models.Shipment, error)
	AdvanceWarehouse(ctx context.Context, input AdvanceWarehouseInput) (*models.Shipment, error)
}

type service struct {
	repo    Repository
	pricing pricing.Service
	promo   promoRedeemer
	tx      txRunner
	outbox  outboxPublisher
	metrics *metrics.ShipmentMetrics
}

// PartyInput is one side of a booking (sender or receiver).
type PartyInput struct {
	Name    string
	Phone   string
	Address string
	City    string
}

// CreateInput carries a booking request.
type CreateInput struct {
	Sender        PartyInput
	Receiver      PartyInput
	ParcelType    enums.ParcelType
	WeightKg      float64
	PaymentMethod enums.PaymentMethod
	PromoCode     *string
	// IdempotencyKey scopes the promo redemption to this booking attempt.
	IdempotencyKey string
	Actor          *outbox.ActorRef
}

// TransitionInput moves the customer-facing status one legal step.
type TransitionInput struct {
	ShipmentID uuid.UUID
	Target     enums.ShipmentStatus
	Actor      *outbox.ActorRef
}

// AdvanceWarehouseInput moves the warehouse sub-track.
type AdvanceWarehouseInput struct {
	ShipmentID uuid.UUID
	Target     enums.WarehouseStatus
	Location   enums.WarehouseLocation
	Actor      *outbox.ActorRef
}

// TrackView is the public read model for a tracking number lookup.
type TrackView struct {
	TrackingNumber    string                  `json:"tracking_number"`
	ParcelType        enums.ParcelType        `json:"parcel_type"`
	Status            enums.ShipmentStatus    `json:"status"`
	StatusLabel       string                  `json:"status_label"`
	StatusColor       string                  `json:"status_color"`
	WarehouseStatus   enums.WarehouseStatus   `json:"warehouse_status"`
	WarehouseLocation enums.WarehouseLocation `json:"warehouse_location"`
	StatusUpdatedAt   time.Time               `json:"status_updated_at"`
	DeliveredAt       *time.Time              `json:"delivered_at,omitempty"`
	BookedAt          time.Time               `json:"booked_at"`
}

// NewService wires the shipment service with its dependencies.
func NewService(repo Repository, pricingSvc pricing.Service, promoSvc promoRedeemer, tx txRunner, outboxSvc outboxPublisher, m *metrics.ShipmentMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipments repository required")
	}
	if pricingSvc == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	if promoSvc == nil {
		return nil, fmt.Errorf("promo service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:    repo,
		pricing: pricingSvc,
		promo:   promoSvc,
		tx:      tx,
		outbox:  outboxSvc,
		metrics: m,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Shipment, error) {
	if err := validateParty("sender", input.Sender); err != nil {
		return nil, err
	}
	if err := validateParty("receiver", input.Receiver); err != nil {
		return nil, err
	}
	if !input.ParcelType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown parcel type %q", input.ParcelType))
	}
	if input.WeightKg < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must not be negative")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", input.PaymentMethod))
	}

	entry, err := s.pricing.Quote(ctx, input.ParcelType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	shipment := &models.Shipment{
		TrackingNumber:  newTrackingNumber(),
		SenderName:      strings.TrimSpace(input.Sender.Name),
		SenderPhone:     strings.TrimSpace(input.Sender.Phone),
		SenderAddress:   strings.TrimSpace(input.Sender.Address),
		SenderCity:      strings.TrimSpace(input.Sender.City),
		ReceiverName:    strings.TrimSpace(input.Receiver.Name),
		ReceiverPhone:   strings.TrimSpace(input.Receiver.Phone),
		ReceiverAddress: strings.TrimSpace(input.Receiver.Address),
		ReceiverCity:    strings.TrimSpace(input.Receiver.City),
		ParcelType:      input.ParcelType,
		WeightKg:        input.WeightKg,
		SizeClass:       sizeClassFor[input.ParcelType],
		Currency:        entry.Currency,
		UnitPricePence:  entry.AmountPence,
		FinalPricePence: entry.AmountPence,
		PaymentMethod:   input.PaymentMethod,
		Status:          enums.ShipmentStatusBooked,
		WarehouseStatus: enums.WarehouseStatusNone,
		WarehouseLocation: enums.WarehouseLocationOrigin,
		StatusUpdatedAt: now,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if input.PromoCode != nil && strings.TrimSpace(*input.PromoCode) != "" {
			app, err := s.promo.Redeem(ctx, tx, promo.RedeemInput{
				Code:           *input.PromoCode,
				SubtotalPence:  entry.AmountPence,
				IdempotencyKey: input.IdempotencyKey,
				Actor:          input.Actor,
			})
			if err != nil {
				return err
			}
			code := app.Code
			shipment.PromoCode = &code
			shipment.DiscountPence = app.DiscountPence
			shipment.FinalPricePence = app.FinalPence
		}

		if err := s.repo.WithTx(tx).Create(ctx, shipment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipment")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventShipmentBooked,
			AggregateType: enums.AggregateShipment,
			AggregateID:   shipment.ID,
			Version:       1,
			Actor:         input.Actor,
			Data: payloads.ShipmentBookedEvent{
				ShipmentID:      shipment.ID,
				TrackingNumber:  shipment.TrackingNumber,
				ParcelType:      shipment.ParcelType,
				FinalPricePence: shipment.FinalPricePence,
				PaymentMethod:   shipment.PaymentMethod,
				ReceiverPhone:   shipment.ReceiverPhone,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return shipment, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id required")
	}
	shipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
	}
	return shipment, nil
}

func (s *service) Track(ctx context.Context, trackingNumber string) (*TrackView, error) {
	trimmed := strings.TrimSpace(strings.ToUpper(trackingNumber))
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number required")
	}
	shipment, err := s.repo.FindByTrackingNumber(ctx, trimmed)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up shipment")
	}

	p := PresentationFor(shipment.Status)
	return &TrackView{
		TrackingNumber:    shipment.TrackingNumber,
		ParcelType:        shipment.ParcelType,
		Status:            shipment.Status,
		StatusLabel:       p.Label,
		StatusColor:       p.Color,
		WarehouseStatus:   shipment.WarehouseStatus,
		WarehouseLocation: shipment.WarehouseLocation,
		StatusUpdatedAt:   shipment.StatusUpdatedAt,
		DeliveredAt:       shipment.DeliveredAt,
		BookedAt:          shipment.CreatedAt,
	}, nil
}

func (s *service) TransitionStatus(ctx context.Context, input TransitionInput) (*models.Shipment, error) {
	if input.ShipmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id required")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown status %q", input.Target))
	}

	var updated *models.Shipment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		shipment, err := repo.FindByID(ctx, input.ShipmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
		}

		if !CanTransition(shipment.Status, input.Target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("transition %s -> %s not allowed", shipment.Status, input.Target))
		}

		now := time.Now()
		moved, err := repo.UpdateStatus(ctx, shipment.ID, shipment.Status, input.Target, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipment status")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "shipment status changed concurrently")
		}

		from := shipment.Status
		shipment.Status = input.Target
		shipment.StatusUpdatedAt = now
		switch input.Target {
		case enums.ShipmentStatusDelivered:
			shipment.DeliveredAt = &now
		case enums.ShipmentStatusCancelled:
			shipment.CancelledAt = &now
		}
		updated = shipment

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventShipmentStatusChanged,
			AggregateType: enums.AggregateShipment,
			AggregateID:   shipment.ID,
			Version:       1,
			Actor:         input.Actor,
			Data: payloads.ShipmentStatusChangedEvent{
				ShipmentID:     shipment.ID,
				TrackingNumber: shipment.TrackingNumber,
				FromStatus:     from,
				ToStatus:       input.Target,
				ReceiverPhone:  shipment.ReceiverPhone,
				ChangedAt:      now,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusTransition(string(input.Target))
	return updated, nil
}

func (s *service) AdvanceWarehouse(ctx context.Context, input AdvanceWarehouseInput) (*models.Shipment, error) {
	if input.ShipmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id required")
	}
	if !input.Target.IsValid() || input.Target == enums.WarehouseStatusNone {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid warehouse status %q", input.Target))
	}
	if !input.Location.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid warehouse location %q", input.Location))
	}

	var updated *models.Shipment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		shipment, err := repo.FindByID(ctx, input.ShipmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
		}
		if shipment.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "shipment is already closed")
		}

		if !CanAdvanceWarehouse(shipment.WarehouseStatus, shipment.WarehouseLocation, input.Target, input.Location) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("warehouse move %s@%s -> %s@%s not allowed",
					shipment.WarehouseStatus, shipment.WarehouseLocation, input.Target, input.Location))
		}

		moved, err := repo.AdvanceWarehouse(ctx, shipment.ID, shipment.WarehouseStatus, shipment.WarehouseLocation, input.Target, input.Location)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance warehouse status")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "warehouse status changed concurrently")
		}

		from := shipment.WarehouseStatus
		shipment.WarehouseStatus = input.Target
		shipment.WarehouseLocation = input.Location
		updated = shipment

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventShipmentWarehouseAdvanced,
			AggregateType: enums.AggregateShipment,
			AggregateID:   shipment.ID,
			Version:       1,
			Actor:         input.Actor,
			Data: payloads.ShipmentWarehouseAdvancedEvent{
				ShipmentID:     shipment.ID,
				TrackingNumber: shipment.TrackingNumber,
				FromStatus:     from,
				ToStatus:       input.Target,
				Location:       input.Location,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func validateParty(side string, party PartyInput) error {
	if strings.TrimSpace(party.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, side+" name is required")
	}
	if strings.TrimSpace(party.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, side+" phone is required")
	}
	if strings.TrimSpace(party.Address) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, side+" address is required")
	}
	if strings.TrimSpace(party.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, side+" city is required")
	}
	return nil
}

// newTrackingNumber builds the customer-facing reference, e.g. MM-3F9A07C21B.
func newTrackingNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "MM-" + raw[:10]
}
