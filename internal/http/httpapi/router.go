package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"lifeplan-server/internal/http/handlers"
	"lifeplan-server/internal/infra"
	"lifeplan-server/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORSOrigins),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	// Public surface
	r.With(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)).
		Get("/v1/stats/public", app.PublicStats)

	// Scheduled surface (cron secret enforced in the handler)
	r.Post("/v1/birthdays/process", app.ProcessBirthdays)

	// Authenticated surface
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))

		r.Route("/v1/subscription", func(r chi.Router) {
			r.Post("/check", app.CheckSubscription)
			r.Post("/pause", app.PauseSubscription)
		})
		r.Get("/v1/entitlements/can-create", app.CanCreatePlan)
		r.Post("/v1/admin/subscription", app.AdminUpdateSubscription)
	})

	return r
}
