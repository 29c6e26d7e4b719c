package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/haulmarket/api/controllers"
	"github.com/angelmondragon/haulmarket/api/middleware"
	"github.com/angelmondragon/haulmarket/internal/listings"
	"github.com/angelmondragon/haulmarket/internal/matching"
	"github.com/angelmondragon/haulmarket/internal/pricing"
	"github.com/angelmondragon/haulmarket/pkg/config"
	"github.com/angelmondragon/haulmarket/pkg/logger"
	"github.com/angelmondragon/haulmarket/pkg/redis"
)

// NewRouter wires the HTTP surface. redisPinger and idempotency may be nil
// when Redis is disabled; metricsHandler may be nil to skip /metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	idempotency redis.IdempotencyStore,
	metricsHandler http.Handler,
	listingsRepo listings.Repository,
	matchingService matching.Service,
	pricingService pricing.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbPinger,
			"redis":    redisPinger,
		}))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing(cfg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/matching/candidates", controllers.MatchingCandidates(matchingService, logg))
		r.Post("/pricing/quote", controllers.PricingQuote(pricingService, logg))
		r.Get("/listings", controllers.ListingsByStatus(listingsRepo, logg))

		r.Route("/order-groups/{orderGroupID}", func(r chi.Router) {
			r.With(middleware.Idempotency(idempotency, logg)).Post("/rematch", controllers.OrderGroupRematch(matchingService, logg))
			r.Post("/quote", controllers.OrderGroupQuote(pricingService, logg))
		})
	})

	return r
}
