package handlers

import (
	"net/http"
)

// ProcessBirthdays runs the daily birthday sweep. Invoked by the scheduler;
// guarded by a shared secret header when one is configured.
func (a *App) ProcessBirthdays(w http.ResponseWriter, r *http.Request) {
	if a.CronSecret != "" && r.Header.Get("X-Cron-Secret") != a.CronSecret {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid cron secret")
		return
	}

	res, err := a.Sweeper.Run(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("birthdays: sweep failed")
		a.error(w, http.StatusInternalServerError, "internal", "birthday sweep failed")
		return
	}

	resp := map[string]any{
		"success":     true,
		"processed":   res.Processed,
		"emails_sent": res.EmailsSent,
	}
	if len(res.Errors) > 0 {
		resp["errors"] = res.Errors
	}
	a.json(w, http.StatusOK, resp)
}
