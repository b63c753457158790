package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/postin54-boop/mani-me-sub002/api/controllers"
	"github.com/postin54-boop/mani-me-sub002/api/middleware"
	"github.com/postin54-boop/mani-me-sub002/internal/assignment"
	"github.com/postin54-boop/mani-me-sub002/internal/drivers"
	"github.com/postin54-boop/mani-me-sub002/internal/pricing"
	"github.com/postin54-boop/mani-me-sub002/internal/promo"
	"github.com/postin54-boop/mani-me-sub002/internal/settlement"
	"github.com/postin54-boop/mani-me-sub002/internal/shipments"
	"github.com/postin54-boop/mani-me-sub002/pkg/config"
	"github.com/postin54-boop/mani-me-sub002/pkg/db"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	"github.com/postin54-boop/mani-me-sub002/pkg/logger"
	"github.com/postin54-boop/mani-me-sub002/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Pricing    pricing.Service
	Promo      promo.Service
	Shipments  shipments.Service
	Assignment assignment.Service
	Drivers    drivers.Service
	Settlement settlement.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// public surface: catalog reads and tracking
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/prices", controllers.PriceCatalog(svcs.Pricing, logg))
		r.Get("/prices/{parcelType}", controllers.PriceQuote(svcs.Pricing, logg))
		r.Get("/shipments/track/{trackingNumber}", controllers.TrackShipment(svcs.Shipments, logg))

		// authenticated customer/staff surface
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Post("/shipments", controllers.CreateShipment(svcs.Shipments, logg))
			r.Post("/promos/apply", controllers.PromoApply(svcs.Promo, logg))
			r.Get("/shipments/{shipmentId}", controllers.GetShipment(svcs.Shipments, logg))
			r.Post("/shipments/{shipmentId}/status", controllers.TransitionShipmentStatus(svcs.Shipments, logg))
			r.Post("/shipments/{shipmentId}/warehouse-status", controllers.AdvanceShipmentWarehouse(svcs.Shipments, logg))
		})

		r.Route("/driver", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(enums.ActorRoleDriver, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Post("/settlements", controllers.DriverOpenSettlement(svcs.Settlement, logg))
			r.Get("/settlements", controllers.DriverListSettlements(svcs.Settlement, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(enums.ActorRoleAdmin, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Put("/prices/{parcelType}", controllers.AdminUpsertPrice(svcs.Pricing, logg))

			r.Route("/promos", func(r chi.Router) {
				r.Get("/", controllers.AdminListPromos(svcs.Promo, logg))
				r.Post("/", controllers.AdminCreatePromo(svcs.Promo, logg))
				r.Patch("/{code}/status", controllers.AdminSetPromoStatus(svcs.Promo, logg))
			})

			r.Route("/drivers", func(r chi.Router) {
				r.Get("/", controllers.AdminListDrivers(svcs.Drivers, logg))
				r.Post("/", controllers.AdminRegisterDriver(svcs.Drivers, logg))
				r.Post("/{driverId}/deactivate", controllers.AdminDeactivateDriver(svcs.Drivers, logg))
			})

			r.Route("/shipments", func(r chi.Router) {
				r.Get("/pending-pickup", controllers.AdminPendingPickup(svcs.Assignment, logg))
				r.Get("/pending-delivery", controllers.AdminPendingDelivery(svcs.Assignment, logg))
				r.Post("/{shipmentId}/assign-pickup", controllers.AdminAssignPickup(svcs.Assignment, logg))
				r.Post("/{shipmentId}/assign-delivery", controllers.AdminAssignDelivery(svcs.Assignment, logg))
				r.Post("/{shipmentId}/unassign", controllers.AdminUnassignDriver(svcs.Assignment, logg))
			})

			r.Route("/settlements", func(r chi.Router) {
				r.Get("/pending", controllers.AdminPendingSettlements(svcs.Settlement, logg))
				r.Get("/{reportId}", controllers.AdminGetSettlement(svcs.Settlement, logg))
				r.Post("/{reportId}/resolve", controllers.AdminResolveSettlement(svcs.Settlement, logg))
			})
		})
	})

	return r
}
