package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/atlastrek/tour-backend/api/responses"
	"github.com/atlastrek/tour-backend/pkg/config"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type dependencyCheck struct {
	name   string
	pinger pinger
}

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AtlasTrek-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each backing dependency and reports per-dependency status.
// Nil pingers are skipped so partial deployments stay readable.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis, gcs, bigquery pinger) http.HandlerFunc {
	checks := []dependencyCheck{
		{name: "postgres", pinger: db},
		{name: "redis", pinger: redis},
		{name: "gcs", pinger: gcs},
		{name: "bigquery", pinger: bigquery},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		statuses := make(map[string]string, len(checks))
		healthy := true
		for _, check := range checks {
			if check.pinger == nil {
				statuses[check.name] = "skipped"
				continue
			}
			if err := check.pinger.Ping(ctx); err != nil {
				healthy = false
				statuses[check.name] = "down"
				if logg != nil {
					logg.Error(ctx, "readiness check failed for "+check.name, err)
				}
				continue
			}
			statuses[check.name] = "up"
		}

		w.Header().Set("X-AtlasTrek-Env", cfg.App.Env)
		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "one or more dependencies unavailable").
				WithDetails(map[string]any{"checks": statuses})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": statuses})
	}
}
