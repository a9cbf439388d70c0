package controllers

import (
	"net/http"
	"strings"

	"github.com/vetricrackers/vetricrackers-backend/api/responses"
	"github.com/vetricrackers/vetricrackers-backend/api/validators"
	"github.com/vetricrackers/vetricrackers-backend/internal/locations"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

type createDeliveryRateRequest struct {
	District      string `json:"district" validate:"required"`
	State         string `json:"state" validate:"required"`
	MinOrderValue int    `json:"min_order_value" validate:"gte=0"`
	RatePerBox    int    `json:"rate_per_box" validate:"gte=0"`
}

type updateDeliveryRateRequest struct {
	MinOrderValue *int  `json:"min_order_value,omitempty" validate:"omitempty,gte=0"`
	RatePerBox    *int  `json:"rate_per_box,omitempty" validate:"omitempty,gte=0"`
	IsActive      *bool `json:"is_active,omitempty"`
}

func CreateDeliveryRate(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery rate service unavailable"))
			return
		}

		var payload createDeliveryRateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := svc.CreateRate(r.Context(), locations.CreateRateInput{
			District:      payload.District,
			State:         payload.State,
			MinOrderValue: payload.MinOrderValue,
			RatePerBox:    payload.RatePerBox,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, rate)
	}
}

func UpdateDeliveryRate(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery rate service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDeliveryRateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := svc.UpdateRate(r.Context(), id, locations.UpdateRateInput{
			MinOrderValue: payload.MinOrderValue,
			RatePerBox:    payload.RatePerBox,
			IsActive:      payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rate)
	}
}

func DeleteDeliveryRate(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery rate service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteRate(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ListDeliveryRates(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery rate service unavailable"))
			return
		}

		activeOnly, err := validators.ParseQueryBool(r, "active", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListRates(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// LookupDeliveryRate resolves the charge for a district and state pair.
func LookupDeliveryRate(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery rate service unavailable"))
			return
		}

		district := strings.TrimSpace(r.URL.Query().Get("district"))
		state := strings.TrimSpace(r.URL.Query().Get("state"))

		rate, err := svc.RateForLocation(r.Context(), district, state)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rate)
	}
}
