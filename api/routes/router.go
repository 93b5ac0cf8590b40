package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Marshal-AM/cumadmin/api/controllers"
	"github.com/Marshal-AM/cumadmin/api/middleware"
	"github.com/Marshal-AM/cumadmin/internal/bookings"
	"github.com/Marshal-AM/cumadmin/internal/facilities"
	"github.com/Marshal-AM/cumadmin/pkg/config"
	"github.com/Marshal-AM/cumadmin/pkg/logger"
	pkgredis "github.com/Marshal-AM/cumadmin/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs. Redis and the
// metrics gatherer are optional; routes depending on them degrade gracefully.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DBPinger    controllers.Pinger
	RedisClient *pkgredis.Client
	// IdempotencyStore overrides the store derived from RedisClient when set.
	IdempotencyStore pkgredis.IdempotencyStore
	BookingService   bookings.Service
	FacilityService  facilities.Service
	Gatherer         prometheus.Gatherer
}

func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	var idempotencyStore pkgredis.IdempotencyStore
	var cachePinger controllers.Pinger
	if params.RedisClient != nil {
		idempotencyStore = params.RedisClient
		cachePinger = params.RedisClient
	}
	if idempotencyStore == nil {
		idempotencyStore = params.IdempotencyStore
	}

	r.Use(
		middleware.Recoverer(params.Logger),
		middleware.RequestID(params.Logger),
		middleware.Logging(params.Logger),
		// Must run on the top-level router: inside a route group chi reports
		// the group wildcard as the pattern and the replay guard never matches.
		middleware.Idempotency(idempotencyStore, params.Config.Idempotency.TTL, params.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(params.Config))
		r.Get("/ready", controllers.HealthReady(params.Config, params.Logger, params.DBPinger, cachePinger))
	})

	gatherer := params.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/bookings/update-status", controllers.UpdateBookingStatus(params.BookingService, params.Logger))
		r.Post("/facilities/update-status", controllers.UpdateFacilityStatus(params.FacilityService, params.Logger))
	})

	return r
}
