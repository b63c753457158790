package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/postin54-boop/mani-me-sub002/api/routes"
	"github.com/postin54-boop/mani-me-sub002/internal/assignment"
	"github.com/postin54-boop/mani-me-sub002/internal/drivers"
	"github.com/postin54-boop/mani-me-sub002/internal/pricing"
	"github.com/postin54-boop/mani-me-sub002/internal/promo"
	"github.com/postin54-boop/mani-me-sub002/internal/settlement"
	"github.com/postin54-boop/mani-me-sub002/internal/shipments"
	"github.com/postin54-boop/mani-me-sub002/pkg/config"
	"github.com/postin54-boop/mani-me-sub002/pkg/db"
	"github.com/postin54-boop/mani-me-sub002/pkg/logger"
	"github.com/postin54-boop/mani-me-sub002/pkg/metrics"
	"github.com/postin54-boop/mani-me-sub002/pkg/migrate"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox"
	"github.com/postin54-boop/mani-me-sub002/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	shipmentMetrics := metrics.NewShipmentMetrics(registry)

	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	pricingSvc, err := pricing.NewService(pricing.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}
	promoSvc, err := promo.NewService(promo.NewRepository(dbClient.DB()), outboxSvc, shipmentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create promo service", err)
		os.Exit(1)
	}
	driversSvc, err := drivers.NewService(drivers.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create drivers service", err)
		os.Exit(1)
	}
	shipmentRepo := shipments.NewRepository(dbClient.DB())
	driverRepo := drivers.NewRepository(dbClient.DB())
	shipmentsSvc, err := shipments.NewService(shipmentRepo, pricingSvc, promoSvc, dbClient, outboxSvc, shipmentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipments service", err)
		os.Exit(1)
	}
	assignmentSvc, err := assignment.NewService(shipmentRepo, driverRepo, dbClient, outboxSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create assignment service", err)
		os.Exit(1)
	}
	settlementSvc, err := settlement.NewService(settlement.NewRepository(dbClient.DB()), shipmentRepo, driverRepo, dbClient, outboxSvc, shipmentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
			Pricing:    pricingSvc,
			Promo:      promoSvc,
			Shipments:  shipmentsSvc,
			Assignment: assignmentSvc,
			Drivers:    driversSvc,
			Settlement: settlementSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
