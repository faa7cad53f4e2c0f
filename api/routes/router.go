package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/floramarket/flora-backend/api/controllers"
	"github.com/floramarket/flora-backend/api/middleware"
	"github.com/floramarket/flora-backend/internal/catalog"
	"github.com/floramarket/flora-backend/pkg/config"
	"github.com/floramarket/flora-backend/pkg/db"
	"github.com/floramarket/flora-backend/pkg/logger"
	"github.com/floramarket/flora-backend/pkg/metrics"
	"github.com/floramarket/flora-backend/pkg/redis"
)

// Metrics groups the collectors the router feeds. Any field may be nil.
type Metrics struct {
	Gatherer prometheus.Gatherer
	HTTP     *metrics.HTTPMetrics
	Catalog  *metrics.CatalogMetrics
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	m Metrics,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, m.HTTP),
		middleware.CORS(cfg.CORS),
	)

	readyDeps := map[string]controllers.Pinger{"db": dbP, "redis": nil}
	var limiter redis.RateLimiter
	if redisClient != nil {
		readyDeps["redis"] = redisClient
		limiter = redisClient
	}

	catalogPolicy := middleware.NewRateLimitPolicy(
		"catalog",
		cfg.RateLimit.CatalogWindow,
		cfg.RateLimit.CatalogLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App))
		r.Get("/ready", controllers.HealthReady(cfg.App, logg, readyDeps))
	})

	if m.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(catalogPolicy, limiter, m.Catalog, logg))

		r.Get("/products", controllers.ListProducts(catalogService, cfg.Catalog.MaxPageSize, logg))
		r.Get("/products/{productId}", controllers.GetProduct(catalogService, logg))
		r.Get("/categories/{categoryId}/products", controllers.CategoryProducts(catalogService, logg))
	})

	return r
}
