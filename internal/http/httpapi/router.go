package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"effortnet/internal/http/handlers"
	"effortnet/internal/infra"
	"effortnet/internal/middleware"
)

// NewRouter assembles the HTTP surface: the public scoring routes, the
// authenticated account routes, and the operational endpoints.
func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger, country middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Geo(country),
	)

	r.Get("/v1/healthz", app.Health)
	r.Handle("/metrics", handlers.Metrics())
	r.Get("/v1/platforms", app.Platforms)
	r.Get("/v1/stats/summary", app.StatsSummary)

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
			middleware.OptionalAuthJWT(cfg.JWTSecret),
		)
		r.Post("/v1/score", app.ScoreContent)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))
		r.Get("/v1/me", app.Me)
		r.Post("/v1/workouts", app.LogWorkout)
	})

	return r
}
