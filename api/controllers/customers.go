package controllers

import (
	"net/http"
	"strings"

	"github.com/vetricrackers/vetricrackers-backend/api/responses"
	"github.com/vetricrackers/vetricrackers-backend/api/validators"
	"github.com/vetricrackers/vetricrackers-backend/internal/customers"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

type createCustomerRequest struct {
	Name         string  `json:"name" validate:"required"`
	CustomerType string  `json:"customer_type,omitempty"`
	MobileNumber string  `json:"mobile_number" validate:"required"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Address      string  `json:"address,omitempty"`
	District     string  `json:"district,omitempty"`
	State        string  `json:"state,omitempty"`
	Pincode      *string `json:"pincode,omitempty"`
}

type updateCustomerRequest struct {
	Name         *string `json:"name,omitempty"`
	CustomerType *string `json:"customer_type,omitempty"`
	MobileNumber *string `json:"mobile_number,omitempty"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Address      *string `json:"address,omitempty"`
	District     *string `json:"district,omitempty"`
	State        *string `json:"state,omitempty"`
	Pincode      *string `json:"pincode,omitempty"`
}

func CreateCustomer(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		var payload createCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.CreateCustomer(r.Context(), customers.CreateCustomerInput{
			Name:         payload.Name,
			CustomerType: enums.CustomerType(strings.TrimSpace(payload.CustomerType)),
			MobileNumber: payload.MobileNumber,
			Email:        payload.Email,
			Address:      payload.Address,
			District:     payload.District,
			State:        payload.State,
			Pincode:      payload.Pincode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

func UpdateCustomer(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := customers.UpdateCustomerInput{
			Name:         payload.Name,
			MobileNumber: payload.MobileNumber,
			Email:        payload.Email,
			Address:      payload.Address,
			District:     payload.District,
			State:        payload.State,
			Pincode:      payload.Pincode,
		}
		if payload.CustomerType != nil {
			customerType := enums.CustomerType(strings.TrimSpace(*payload.CustomerType))
			input.CustomerType = &customerType
		}

		customer, err := svc.UpdateCustomer(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

func DeleteCustomer(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCustomer(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func GetCustomer(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.GetCustomer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

func ListCustomers(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := customers.ListFilters{
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("customer_type")); raw != "" {
			filters.CustomerType = &raw
		}

		rows, nextCursor, err := svc.ListCustomers(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagedResponse{Items: rows, NextCursor: nextCursor})
	}
}
