package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"live-airlines/provisioner/internal/api"
	"live-airlines/provisioner/internal/auth"
	"live-airlines/provisioner/internal/logging"
	"live-airlines/provisioner/internal/metrics"
	"live-airlines/provisioner/internal/middleware"
)

type RouterOptions struct {
	AllowedOrigins []string
	// RequestsPerSecond and Burst configure the per-IP limiter on /v1.
	RequestsPerSecond float64
	Burst             int
	UpSince           time.Time
}

func RegisterRoutes(deps *api.Dependencies, tokens *auth.TokenService, metricsReg *metrics.MetricsRegistry, opts RouterOptions) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(deps.Database, deps.Checks, opts.UpSince))
	r.Handle("/metrics", promhttp.HandlerFor(metricsReg.Gatherer(), promhttp.HandlerOpts{}))

	handlers := api.NewHandlers(deps)
	limiter := middleware.NewRateLimiter(opts.RequestsPerSecond, opts.Burst)

	r.Route("/v1/schema", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)
		v1.Use(middleware.InFlight(metricsReg))

		v1.Get("/", handlers.GetSchema())
		v1.Get("/runs", handlers.ListRuns())

		// operator-only
		v1.Group(func(op chi.Router) {
			op.Use(middleware.OperatorAuth(tokens))
			op.Post("/provision", handlers.ProvisionSchema())
		})
	})

	logging.Info("Router initialized", "allowed_origins", opts.AllowedOrigins)
	return r
}
