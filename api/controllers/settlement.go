package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/postin54-boop/mani-me-sub002/api/middleware"
	"github.com/postin54-boop/mani-me-sub002/api/responses"
	"github.com/postin54-boop/mani-me-sub002/api/validators"
	"github.com/postin54-boop/mani-me-sub002/internal/settlement"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
	"github.com/postin54-boop/mani-me-sub002/pkg/logger"
	"github.com/postin54-boop/mani-me-sub002/pkg/pagination"
)

type openSettlementRequest struct {
	ReportedPence int64    `json:"reported_pence" validate:"min=0"`
	PhotoRef      string   `json:"photo_ref" validate:"required"`
	Currency      string   `json:"currency,omitempty"`
	ShiftDate     string   `json:"shift_date" validate:"required"`
	ShipmentIDs   []string `json:"shipment_ids" validate:"required,min=1,dive,uuid"`
}

// DriverOpenSettlement files an end-of-shift cash declaration. The driver is
// identified by the access token, so one driver cannot file for another.
func DriverOpenSettlement(svc settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement service unavailable"))
			return
		}
		driverID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req openSettlementRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shiftDate, err := time.Parse("2006-01-02", req.ShiftDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "shift_date must be YYYY-MM-DD"))
			return
		}
		shipmentIDs := make([]uuid.UUID, 0, len(req.ShipmentIDs))
		for _, raw := range req.ShipmentIDs {
			id, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid shipment id"))
				return
			}
			shipmentIDs = append(shipmentIDs, id)
		}

		report, err := svc.OpenReport(r.Context(), settlement.OpenReportInput{
			DriverID:      driverID,
			ReportedPence: req.ReportedPence,
			PhotoRef:      validators.SanitizeString(req.PhotoRef, 500),
			Currency:      enums.Currency(req.Currency),
			ShiftDate:     shiftDate,
			ShipmentIDs:   shipmentIDs,
			Actor:         middleware.ActorRefFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, report)
	}
}

// DriverListSettlements returns a page of the calling driver's own reports,
// newest first.
func DriverListSettlements(svc settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement service unavailable"))
			return
		}
		driverID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.DriverReports(r.Context(), driverID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

type resolveSettlementRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Notes    string `json:"notes,omitempty"`
}

// AdminResolveSettlement closes a pending report with an admin decision.
func AdminResolveSettlement(svc settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement service unavailable"))
			return
		}
		rawReportID := strings.TrimSpace(chi.URLParam(r, "reportId"))
		reportID, err := uuid.Parse(rawReportID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid report id"))
			return
		}
		reviewerID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req resolveSettlementRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		report, err := svc.ResolveReport(r.Context(), settlement.ResolveReportInput{
			ReportID:   reportID,
			Decision:   enums.SettlementStatus(req.Decision),
			ReviewerID: reviewerID,
			Notes:      req.Notes,
			Actor:      middleware.ActorRefFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// AdminPendingSettlements lists reports awaiting review, oldest first.
func AdminPendingSettlements(svc settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement service unavailable"))
			return
		}
		reports, err := svc.PendingReports(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reports)
	}
}

// AdminGetSettlement returns one report with its covered shipment lines.
func AdminGetSettlement(svc settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement service unavailable"))
			return
		}
		reportID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "reportId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid report id"))
			return
		}
		report, err := svc.Get(r.Context(), reportID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func actorUUID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ActorIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor id")
	}
	return id, nil
}
