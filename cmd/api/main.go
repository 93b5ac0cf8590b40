package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Marshal-AM/cumadmin/api/routes"
	"github.com/Marshal-AM/cumadmin/internal/bookings"
	"github.com/Marshal-AM/cumadmin/internal/facilities"
	"github.com/Marshal-AM/cumadmin/internal/notifications"
	"github.com/Marshal-AM/cumadmin/internal/startups"
	"github.com/Marshal-AM/cumadmin/internal/webhooks"
	"github.com/Marshal-AM/cumadmin/pkg/config"
	"github.com/Marshal-AM/cumadmin/pkg/db"
	"github.com/Marshal-AM/cumadmin/pkg/logger"
	"github.com/Marshal-AM/cumadmin/pkg/metrics"
	"github.com/Marshal-AM/cumadmin/pkg/migrate"
	"github.com/Marshal-AM/cumadmin/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency replay disabled")
	}

	webhookMetrics := metrics.NewWebhookMetrics(prometheus.DefaultRegisterer)
	dispatcher := webhooks.NewDispatcher(cfg.Webhook.Timeout, logg, webhookMetrics)
	deliveryLog := webhooks.NewDeliveryLog(webhooks.NewDeliveryLogRepository(dbClient.DB()), logg)

	notificationService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	bookingRepo := bookings.NewRepository(dbClient.DB())
	facilityRepo := facilities.NewRepository(dbClient.DB())
	startupRepo := startups.NewRepository(dbClient.DB())
	enricher := bookings.NewEnricher(bookingRepo, facilityRepo, startupRepo, logg)

	bookingService, err := bookings.NewService(bookingRepo, enricher, notificationService, dispatcher, deliveryLog, cfg.Webhook, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create booking service", err)
		os.Exit(1)
	}

	facilityService, err := facilities.NewService(facilityRepo, notificationService, dispatcher, deliveryLog, cfg.Webhook, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create facility service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:          cfg,
			Logger:          logg,
			DBPinger:        dbClient,
			RedisClient:     redisClient,
			BookingService:  bookingService,
			FacilityService: facilityService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
