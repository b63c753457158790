package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/postin54-boop/mani-me-sub002/api/responses"
	"github.com/postin54-boop/mani-me-sub002/api/validators"
	"github.com/postin54-boop/mani-me-sub002/internal/pricing"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
	"github.com/postin54-boop/mani-me-sub002/pkg/logger"
)

// PriceCatalog returns every catalog entry.
func PriceCatalog(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}
		entries, err := svc.Catalog(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// PriceQuote returns the single catalog entry for a parcel type.
func PriceQuote(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}
		parcelType := enums.ParcelType(strings.TrimSpace(chi.URLParam(r, "parcelType")))
		entry, err := svc.Quote(r.Context(), parcelType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}

type upsertPriceRequest struct {
	Label       string `json:"label" validate:"required"`
	AmountPence int64  `json:"amount_pence" validate:"required,min=1"`
	Currency    string `json:"currency" validate:"required"`
}

// AdminUpsertPrice writes one catalog entry for a parcel type.
func AdminUpsertPrice(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}
		var req upsertPriceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entry, err := svc.UpsertEntry(r.Context(), pricing.UpsertEntryInput{
			ParcelType:  enums.ParcelType(strings.TrimSpace(chi.URLParam(r, "parcelType"))),
			Label:       validators.SanitizeString(req.Label, 120),
			AmountPence: req.AmountPence,
			Currency:    enums.Currency(req.Currency),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}
