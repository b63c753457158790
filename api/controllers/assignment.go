package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/postin54-boop/mani-me-sub002/api/middleware"
	"github.com/postin54-boop/mani-me-sub002/api/responses"
	"github.com/postin54-boop/mani-me-sub002/api/validators"
	"github.com/postin54-boop/mani-me-sub002/internal/assignment"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
	"github.com/postin54-boop/mani-me-sub002/pkg/logger"
)

type assignDriverRequest struct {
	DriverID string `json:"driver_id" validate:"required,uuid"`
}

// AdminAssignPickup attaches an origin-side driver to a shipment.
func AdminAssignPickup(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return assignHandler(svc, logg, assignment.SlotPickup)
}

// AdminAssignDelivery attaches a destination-side driver to a shipment.
func AdminAssignDelivery(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return assignHandler(svc, logg, assignment.SlotDelivery)
}

func assignHandler(svc assignment.Service, logg *logger.Logger, slot assignment.Slot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}
		shipmentID, err := parseShipmentID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req assignDriverRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		driverID, err := uuid.Parse(req.DriverID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid driver id"))
			return
		}

		input := assignment.AssignInput{
			ShipmentID: shipmentID,
			DriverID:   driverID,
			Actor:      middleware.ActorRefFromContext(r.Context()),
		}
		var updated any
		switch slot {
		case assignment.SlotPickup:
			updated, err = svc.AssignPickup(r.Context(), input)
		case assignment.SlotDelivery:
			updated, err = svc.AssignDelivery(r.Context(), input)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

type unassignDriverRequest struct {
	Slot string `json:"slot" validate:"required,oneof=pickup delivery"`
}

// AdminUnassignDriver clears one driver slot before the driver has acted.
func AdminUnassignDriver(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}
		shipmentID, err := parseShipmentID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req unassignDriverRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.Unassign(r.Context(), assignment.UnassignInput{
			ShipmentID: shipmentID,
			Slot:       assignment.Slot(req.Slot),
			Actor:      middleware.ActorRefFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminPendingPickup lists shipments awaiting a pickup driver.
func AdminPendingPickup(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}
		list, err := svc.PendingPickup(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminPendingDelivery lists destination-cleared shipments awaiting a
// delivery driver.
func AdminPendingDelivery(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}
		list, err := svc.PendingDelivery(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
