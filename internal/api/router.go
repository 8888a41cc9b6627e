package api

import (
	"time"

	_ "github.com/mmtwa/money-transfer-comparison-sub003/docs"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/comparison/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swagger "github.com/swaggo/http-swagger"
	"github.com/ulule/limiter/v3"
	limiterstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

func NewRouter(comparisonHandler *handler.Handler, requestsPerMinute int64, metricsRegistry *prometheus.Registry) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Per-IP ingress rate limiting on the public surface.
	if requestsPerMinute > 0 {
		rate := limiter.Rate{Period: time.Minute, Limit: requestsPerMinute}
		rl := limiterstdlib.NewMiddleware(limiter.New(limitermemory.NewStore(), rate))
		router.Use(rl.Handler)
	}

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	router.Method("GET", "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))

	router.Get("/api/v1/compare", comparisonHandler.Compare)
	router.Post("/api/v1/cache/clear", comparisonHandler.ClearCache)
	router.Get("/api/v1/providers", comparisonHandler.ListProviders)
	return router
}
