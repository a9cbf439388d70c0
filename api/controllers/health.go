package controllers

import (
	"context"
	"net/http"

	"github.com/vetricrackers/vetricrackers-backend/api/responses"
	"github.com/vetricrackers/vetricrackers-backend/pkg/config"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vetri-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness after confirming the backing stores respond.
func HealthReady(cfg *config.Config, checks map[string]func(context.Context) error, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vetri-Env", cfg.App.Env)
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
