package controllers

import (
	"net/http"
	"time"

	"github.com/vetricrackers/vetricrackers-backend/api/responses"
	"github.com/vetricrackers/vetricrackers-backend/api/validators"
	"github.com/vetricrackers/vetricrackers-backend/internal/promos"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

type createPromoRequest struct {
	Code            string    `json:"code" validate:"required"`
	DiscountPercent float64   `json:"discount" validate:"required,gt=0,lte=100"`
	MinOrderValue   int       `json:"min_order_value" validate:"gte=0"`
	ValidFrom       time.Time `json:"valid_from" validate:"required"`
	ValidTill       time.Time `json:"valid_till" validate:"required"`
}

type validatePromoRequest struct {
	Code       string `json:"code" validate:"required"`
	OrderTotal int    `json:"order_total" validate:"gte=0"`
}

func CreatePromo(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		var payload createPromoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := svc.CreatePromo(r.Context(), promos.CreatePromoInput{
			Code:            payload.Code,
			DiscountPercent: payload.DiscountPercent,
			MinOrderValue:   payload.MinOrderValue,
			ValidFrom:       payload.ValidFrom,
			ValidTill:       payload.ValidTill,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, promo)
	}
}

func DeactivatePromo(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := svc.DeactivatePromo(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, promo)
	}
}

func ListActivePromos(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		rows, err := svc.ListActivePromos(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// ValidatePromo checks a code against its window and order minimum.
func ValidatePromo(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		var payload validatePromoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := svc.Validate(r.Context(), payload.Code, payload.OrderTotal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, promo)
	}
}
