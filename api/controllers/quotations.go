package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vetricrackers/vetricrackers-backend/api/responses"
	"github.com/vetricrackers/vetricrackers-backend/api/validators"
	"github.com/vetricrackers/vetricrackers-backend/internal/quotations"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

type quotationLineRequest struct {
	ProductID       string  `json:"product_id" validate:"required,uuid"`
	ProductType     string  `json:"product_type" validate:"required"`
	Quantity        int     `json:"quantity" validate:"required,min=1"`
	DiscountPercent float64 `json:"discount" validate:"gte=0,lte=100"`
	PriceOverride   *int    `json:"price,omitempty" validate:"omitempty,gte=0"`
}

type submittedTotalsRequest struct {
	NetRate int `json:"net_rate"`
	YouSave int `json:"you_save"`
	Total   int `json:"total"`
}

type createQuotationRequest struct {
	CustomerID                string                  `json:"customer_id" validate:"required,uuid"`
	QuotationNumber           string                  `json:"quotation_number,omitempty"`
	Items                     []quotationLineRequest  `json:"items" validate:"required,min=1,dive"`
	AdditionalDiscountPercent float64                 `json:"additional_discount" validate:"gte=0,lte=100"`
	Submitted                 *submittedTotalsRequest `json:"totals,omitempty"`
}

type editQuotationRequest struct {
	Items                     []quotationLineRequest  `json:"items" validate:"required,min=1,dive"`
	AdditionalDiscountPercent float64                 `json:"additional_discount" validate:"gte=0,lte=100"`
	Submitted                 *submittedTotalsRequest `json:"totals,omitempty"`
}

func (l quotationLineRequest) toInput() (quotations.LineInput, error) {
	productID, err := uuid.Parse(strings.TrimSpace(l.ProductID))
	if err != nil {
		return quotations.LineInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	productType, err := enums.ParseProductType(strings.TrimSpace(l.ProductType))
	if err != nil {
		return quotations.LineInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type")
	}
	return quotations.LineInput{
		ProductID:       productID,
		ProductType:     productType,
		Quantity:        l.Quantity,
		DiscountPercent: l.DiscountPercent,
		PriceOverride:   l.PriceOverride,
	}, nil
}

func toLineInputs(lines []quotationLineRequest) ([]quotations.LineInput, error) {
	out := make([]quotations.LineInput, 0, len(lines))
	for _, line := range lines {
		input, err := line.toInput()
		if err != nil {
			return nil, err
		}
		out = append(out, input)
	}
	return out, nil
}

func toSubmitted(req *submittedTotalsRequest) *quotations.SubmittedTotals {
	if req == nil {
		return nil
	}
	return &quotations.SubmittedTotals{
		NetRate: req.NetRate,
		YouSave: req.YouSave,
		Total:   req.Total,
	}
}

func CreateQuotation(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotation service unavailable"))
			return
		}

		var payload createQuotationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := uuid.Parse(strings.TrimSpace(payload.CustomerID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}

		items, err := toLineInputs(payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quotation, err := svc.Create(r.Context(), quotations.CreateInput{
			CustomerID:                customerID,
			QuotationNumber:           payload.QuotationNumber,
			Items:                     items,
			AdditionalDiscountPercent: payload.AdditionalDiscountPercent,
			Submitted:                 toSubmitted(payload.Submitted),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, quotation)
	}
}

func EditQuotation(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotation service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload editQuotationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := toLineInputs(payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quotation, err := svc.Edit(r.Context(), id, quotations.EditInput{
			Items:                     items,
			AdditionalDiscountPercent: payload.AdditionalDiscountPercent,
			Submitted:                 toSubmitted(payload.Submitted),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quotation)
	}
}

func CancelQuotation(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotation service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quotation, err := svc.Cancel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quotation)
	}
}

// ConvertQuotation books a pending quotation once delivery details are on file.
func ConvertQuotation(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotation service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.ConvertToBooking(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, booking)
	}
}

func GetQuotation(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotation service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quotation, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quotation)
	}
}

func ListQuotations(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotation service unavailable"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters quotations.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseQuotationStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("customer_id")); raw != "" {
			customerID, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid customer id"))
				return
			}
			filters.CustomerID = &customerID
		}

		rows, nextCursor, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagedResponse{Items: rows, NextCursor: nextCursor})
	}
}
