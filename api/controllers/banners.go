package controllers

import (
	"net/http"

	"github.com/vetricrackers/vetricrackers-backend/api/responses"
	"github.com/vetricrackers/vetricrackers-backend/api/validators"
	"github.com/vetricrackers/vetricrackers-backend/internal/banners"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

type createBannerRequest struct {
	Title    string  `json:"title" validate:"required"`
	ImageURL string  `json:"image_url" validate:"required"`
	LinkURL  *string `json:"link_url,omitempty"`
	Position int     `json:"position" validate:"gte=0"`
}

type updateBannerRequest struct {
	Title    *string `json:"title,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
	LinkURL  *string `json:"link_url,omitempty"`
	Position *int    `json:"position,omitempty" validate:"omitempty,gte=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func CreateBanner(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banner service unavailable"))
			return
		}

		var payload createBannerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		banner, err := svc.CreateBanner(r.Context(), banners.CreateBannerInput{
			Title:    payload.Title,
			ImageURL: payload.ImageURL,
			LinkURL:  payload.LinkURL,
			Position: payload.Position,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, banner)
	}
}

func UpdateBanner(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banner service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBannerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		banner, err := svc.UpdateBanner(r.Context(), id, banners.UpdateBannerInput{
			Title:    payload.Title,
			ImageURL: payload.ImageURL,
			LinkURL:  payload.LinkURL,
			Position: payload.Position,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, banner)
	}
}

func DeleteBanner(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banner service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteBanner(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ListBanners(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banner service unavailable"))
			return
		}

		activeOnly, err := validators.ParseQueryBool(r, "active", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListBanners(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}
