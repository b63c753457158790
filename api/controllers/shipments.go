package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/postin54-boop/mani-me-sub002/api/middleware"
	"github.com/postin54-boop/mani-me-sub002/api/responses"
	"github.com/postin54-boop/mani-me-sub002/api/validators"
	"github.com/postin54-boop/mani-me-sub002/internal/shipments"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
	"github.com/postin54-boop/mani-me-sub002/pkg/logger"
)

type partyRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
}

type createShipmentRequest struct {
	Sender        partyRequest `json:"sender" validate:"required"`
	Receiver      partyRequest `json:"receiver" validate:"required"`
	ParcelType    string       `json:"parcel_type" validate:"required"`
	WeightKg      float64      `json:"weight_kg" validate:"min=0"`
	PaymentMethod string       `json:"payment_method" validate:"required,oneof=cash card mobile_money"`
	PromoCode     *string      `json:"promo_code,omitempty"`
}

// CreateShipment books a parcel. The Idempotency-Key header scopes the
// optional promo redemption to this booking attempt.
func CreateShipment(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipments service unavailable"))
			return
		}
		var req createShipmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), shipments.CreateInput{
			Sender:         partyInput(req.Sender),
			Receiver:       partyInput(req.Receiver),
			ParcelType:     enums.ParcelType(req.ParcelType),
			WeightKg:       req.WeightKg,
			PaymentMethod:  enums.PaymentMethod(req.PaymentMethod),
			PromoCode:      req.PromoCode,
			IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
			Actor:          middleware.ActorRefFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func partyInput(p partyRequest) shipments.PartyInput {
	return shipments.PartyInput{
		Name:    validators.SanitizeString(p.Name, 200),
		Phone:   validators.SanitizeString(p.Phone, 32),
		Address: validators.SanitizeString(p.Address, 500),
		City:    validators.SanitizeString(p.City, 120),
	}
}

// TrackShipment is the public read model lookup by tracking number.
func TrackShipment(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipments service unavailable"))
			return
		}
		view, err := svc.Track(r.Context(), chi.URLParam(r, "trackingNumber"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// GetShipment returns the full shipment record for staff tooling.
func GetShipment(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipments service unavailable"))
			return
		}
		id, err := parseShipmentID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shipment, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shipment)
	}
}

type transitionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TransitionShipmentStatus moves the customer-facing status one legal step.
func TransitionShipmentStatus(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipments service unavailable"))
			return
		}
		id, err := parseShipmentID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req transitionStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.TransitionStatus(r.Context(), shipments.TransitionInput{
			ShipmentID: id,
			Target:     enums.ShipmentStatus(req.Status),
			Actor:      middleware.ActorRefFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

type advanceWarehouseRequest struct {
	Status   string `json:"status" validate:"required,oneof=received sorted packed shipped"`
	Location string `json:"location" validate:"required,oneof=origin destination"`
}

// AdvanceShipmentWarehouse moves the warehouse sub-track one step.
func AdvanceShipmentWarehouse(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipments service unavailable"))
			return
		}
		id, err := parseShipmentID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req advanceWarehouseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.AdvanceWarehouse(r.Context(), shipments.AdvanceWarehouseInput{
			ShipmentID: id,
			Target:     enums.WarehouseStatus(req.Status),
			Location:   enums.WarehouseLocation(req.Location),
			Actor:      middleware.ActorRefFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func parseShipmentID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "shipmentId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipment id")
	}
	return id, nil
}
