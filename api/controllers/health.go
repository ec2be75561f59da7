package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/arlomendez/techstore-backend/api/responses"
	"github.com/arlomendez/techstore-backend/pkg/config"
	"github.com/arlomendez/techstore-backend/pkg/db"
	pkgerrors "github.com/arlomendez/techstore-backend/pkg/errors"
	"github.com/arlomendez/techstore-backend/pkg/logger"
)

const readyCheckTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TechStore-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the hard dependencies before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, database db.Pinger, cache db.Pinger) http.HandlerFunc {
	deps := []struct {
		name   string
		pinger db.Pinger
	}{
		{"database", database},
		{"cache", cache},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TechStore-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		for _, dep := range deps {
			if dep.pinger == nil {
				continue
			}
			if err := dep.pinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, dep.name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
