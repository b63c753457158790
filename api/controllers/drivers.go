package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/postin54-boop/mani-me-sub002/api/responses"
	"github.com/postin54-boop/mani-me-sub002/api/validators"
	"github.com/postin54-boop/mani-me-sub002/internal/drivers"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
	"github.com/postin54-boop/mani-me-sub002/pkg/logger"
)

type registerDriverRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	RegionScope string `json:"region_scope" validate:"required,oneof=origin_pickup destination_delivery"`
}

// AdminRegisterDriver adds a courier to one side of the corridor.
func AdminRegisterDriver(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drivers service unavailable"))
			return
		}
		var req registerDriverRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Register(r.Context(), drivers.RegisterInput{
			FullName:    validators.SanitizeString(req.FullName, 200),
			Phone:       validators.SanitizeString(req.Phone, 32),
			RegionScope: enums.RegionScope(req.RegionScope),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminListDrivers returns drivers, optionally filtered by scope and
// active flag.
func AdminListDrivers(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drivers service unavailable"))
			return
		}
		filter := drivers.ListFilter{}
		if raw := strings.TrimSpace(r.URL.Query().Get("scope")); raw != "" {
			scope := enums.RegionScope(raw)
			filter.Scope = &scope
		}
		active, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.Active = active

		list, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminDeactivateDriver retires a courier; existing assignments are untouched.
func AdminDeactivateDriver(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drivers service unavailable"))
			return
		}
		id, err := parseDriverID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.Deactivate(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func parseDriverID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "driverId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid driver id")
	}
	return id, nil
}
