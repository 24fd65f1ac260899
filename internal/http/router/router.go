package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/rogerio-castellano/storefront-analytics/docs"
	"github.com/rogerio-castellano/storefront-analytics/internal/auth"
	"github.com/rogerio-castellano/storefront-analytics/internal/http/handlers"
	mw "github.com/rogerio-castellano/storefront-analytics/internal/http/middleware"
	rl "github.com/rogerio-castellano/storefront-analytics/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront-analytics/internal/telemetry"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Options struct {
	// Tokens verifies bearer tokens. Nil rejects any Authorization header.
	Tokens        *auth.Tokens
	DefaultTenant string
	// Limiters is nil when rate limiting is disabled.
	Limiters *rl.Limiters
	Metrics  *telemetry.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.Observe(opts.Metrics, opts.Logger))

	r.Get("/health", handlers.HealthHandler)
	r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Group(func(r chi.Router) {
		r.Use(mw.Tenant(opts.Tokens, opts.DefaultTenant))
		if opts.Limiters != nil {
			r.Use(mw.RateLimit(opts.Limiters))
		}

		r.Get("/dashboard", handlers.GetDashboardHandler)
		r.Get("/resolutions", handlers.GetResolutionsHandler)

		r.Route("/segments", func(r chi.Router) {
			r.Get("/customer", handlers.GetCustomerSegmentHandler)
			r.Get("/stock", handlers.GetStockStatusHandler)
			r.Get("/order-progress", handlers.GetOrderProgressHandler)
		})
	})

	return r
}
