package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"lifeplan-server/internal/billing"
	"lifeplan-server/internal/birthday"
	"lifeplan-server/internal/domain"
	"lifeplan-server/internal/entitlement"
	"lifeplan-server/internal/infra"
	"lifeplan-server/internal/middleware"
)

// App bundles the dependencies the request handlers need.
type App struct {
	SQL      infra.SQLExecutor
	Logger   zerolog.Logger
	Billing  billing.Provider
	Resolver *entitlement.Resolver
	Profiles domain.ProfileRepository
	Counter  domain.PlanCounter
	Sweeper  *birthday.Sweeper

	// CronSecret guards the scheduled endpoints; empty disables the check.
	CronSecret string
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
