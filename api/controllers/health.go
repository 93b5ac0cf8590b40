package controllers

import (
	"context"
	"net/http"

	"github.com/Marshal-AM/cumadmin/api/responses"
	"github.com/Marshal-AM/cumadmin/pkg/config"
	pkgerrors "github.com/Marshal-AM/cumadmin/pkg/errors"
	"github.com/Marshal-AM/cumadmin/pkg/logger"
)

const envHeader = "X-Cumadmin-Env"

// Pinger is any dependency that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when the database answers. The idempotency
// store is optional; its state is reported but does not gate readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set(envHeader, cfg.App.Env)

		if db == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := db.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}

		cacheStatus := "disabled"
		if cache != nil {
			cacheStatus = "ok"
			if err := cache.Ping(ctx); err != nil {
				cacheStatus = "unreachable"
				if logg != nil {
					logg.Warn(ctx, "idempotency store unreachable: "+err.Error())
				}
			}
		}

		responses.WriteSuccess(w, map[string]string{
			"status": "ready",
			"db":     "ok",
			"cache":  cacheStatus,
		})
	}
}
