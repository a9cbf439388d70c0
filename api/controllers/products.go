package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vetricrackers/vetricrackers-backend/api/responses"
	"github.com/vetricrackers/vetricrackers-backend/api/validators"
	"github.com/vetricrackers/vetricrackers-backend/internal/catalog"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

type createProductRequest struct {
	ProductType         string   `json:"product_type" validate:"required"`
	Name                string   `json:"name" validate:"required"`
	SerialNumber        string   `json:"serial_number" validate:"required"`
	BasePrice           int      `json:"base_price" validate:"gte=0"`
	DirectCustomerPrice int      `json:"direct_customer_price" validate:"gte=0"`
	DiscountPercent     float64  `json:"discount" validate:"gte=0,lte=100"`
	Unit                string   `json:"per,omitempty"`
	Tags                []string `json:"tags,omitempty"`
	ImageURL            *string  `json:"image_url,omitempty"`
}

type updateProductRequest struct {
	Name                *string  `json:"name,omitempty"`
	SerialNumber        *string  `json:"serial_number,omitempty"`
	BasePrice           *int     `json:"base_price,omitempty" validate:"omitempty,gte=0"`
	DirectCustomerPrice *int     `json:"direct_customer_price,omitempty" validate:"omitempty,gte=0"`
	DiscountPercent     *float64 `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Unit                *string  `json:"per,omitempty"`
	Tags                []string `json:"tags,omitempty"`
	ImageURL            *string  `json:"image_url,omitempty"`
	IsActive            *bool    `json:"is_active,omitempty"`
}

func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productType, err := enums.ParseProductType(strings.TrimSpace(payload.ProductType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type"))
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			ProductType:         productType,
			Name:                payload.Name,
			SerialNumber:        payload.SerialNumber,
			BasePrice:           payload.BasePrice,
			DirectCustomerPrice: payload.DirectCustomerPrice,
			DiscountPercent:     payload.DiscountPercent,
			Unit:                payload.Unit,
			Tags:                payload.Tags,
			ImageURL:            payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, catalog.UpdateProductInput{
			Name:                payload.Name,
			SerialNumber:        payload.SerialNumber,
			BasePrice:           payload.BasePrice,
			DirectCustomerPrice: payload.DirectCustomerPrice,
			DiscountPercent:     payload.DiscountPercent,
			Unit:                payload.Unit,
			Tags:                payload.Tags,
			ImageURL:            payload.ImageURL,
			IsActive:            payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := catalog.ListFilters{
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("product_type")); raw != "" {
			productType, parseErr := enums.ParseProductType(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid product type"))
				return
			}
			filters.ProductType = &productType
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("is_active")); raw != "" {
			active, parseErr := validators.ParseQueryBool(r, "is_active", true)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, parseErr)
				return
			}
			filters.IsActive = &active
		}

		products, nextCursor, err := svc.ListProducts(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagedResponse{Items: products, NextCursor: nextCursor})
	}
}

// ProductPriceList serves the printable per-category rate sheet.
func ProductPriceList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productType, err := enums.ParseProductType(strings.TrimSpace(chi.URLParam(r, "productType")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type"))
			return
		}

		entries, err := svc.PriceList(r.Context(), productType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}
