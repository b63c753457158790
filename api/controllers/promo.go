package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/postin54-boop/mani-me-sub002/api/responses"
	"github.com/postin54-boop/mani-me-sub002/api/validators"
	"github.com/postin54-boop/mani-me-sub002/internal/promo"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
	"github.com/postin54-boop/mani-me-sub002/pkg/logger"
)

type applyPromoRequest struct {
	Code          string `json:"code" validate:"required"`
	SubtotalPence int64  `json:"subtotal_pence" validate:"required,min=0"`
}

// PromoApply previews a discount without consuming usage. Redemption happens
// inside the booking transaction, never here.
func PromoApply(svc promo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}
		var req applyPromoRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		app, err := svc.Preview(r.Context(), req.Code, req.SubtotalPence)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, app)
	}
}

type createPromoRequest struct {
	Code             string    `json:"code" validate:"required"`
	Description      string    `json:"description"`
	DiscountType     string    `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue    int64     `json:"discount_value" validate:"required,min=1"`
	MaxDiscountPence *int64    `json:"max_discount_pence,omitempty"`
	MinOrderPence    int64     `json:"min_order_pence" validate:"min=0"`
	UsageLimit       int       `json:"usage_limit" validate:"required,min=1"`
	ExpiresAt        time.Time `json:"expires_at" validate:"required"`
}

// AdminCreatePromo registers a new promo code.
func AdminCreatePromo(svc promo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}
		var req createPromoRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.CreatePromo(r.Context(), promo.CreatePromoInput{
			Code:             req.Code,
			Description:      validators.SanitizeString(req.Description, 500),
			DiscountType:     enums.DiscountType(req.DiscountType),
			DiscountValue:    req.DiscountValue,
			MaxDiscountPence: req.MaxDiscountPence,
			MinOrderPence:    req.MinOrderPence,
			UsageLimit:       req.UsageLimit,
			ExpiresAt:        req.ExpiresAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

type promoStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// AdminSetPromoStatus toggles a promo between active and inactive.
func AdminSetPromoStatus(svc promo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}
		var req promoStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.SetStatus(r.Context(), chi.URLParam(r, "code"), enums.PromoStatus(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminListPromos returns every promo code with its usage counters.
func AdminListPromos(svc promo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}
		promos, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promos)
	}
}
