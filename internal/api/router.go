package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/point-ledger/internal/api/handlers"
	"github.com/baharkarakas/point-ledger/internal/auth"
	"github.com/baharkarakas/point-ledger/internal/config"
	"github.com/baharkarakas/point-ledger/internal/metrics"
	"github.com/baharkarakas/point-ledger/internal/middleware"
	"github.com/baharkarakas/point-ledger/internal/services"
)

// NewRouter wires the HTTP surface. tm may be nil, in which case point routes
// are open and the /auth routes are not mounted.
func NewRouter(cfg config.Config, points *services.PointService, tm *auth.TokenManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "PATCH", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	if tm != nil {
		ah := handlers.NewAuthHandler(tm, cfg.Env)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/token", ah.Token)
			r.Post("/refresh", ah.Refresh)
		})
	}

	ph := handlers.NewPointHandler(points)
	r.Route("/point/{id}", func(r chi.Router) {
		if tm != nil {
			am := middleware.NewAuthMiddleware(tm, cfg.Env)
			r.Use(am.Auth, middleware.RequireOwner("id"))
		}
		r.Get("/", ph.Get)
		r.Get("/histories", ph.Histories)
		r.Patch("/charge", ph.Charge)
		r.Patch("/use", ph.Use)
	})

	return r
}
