package handlers

import (
	"net/http"
	"time"
)

const maxUsageWindow = 30 * 24 * time.Hour

// UsageSummary reports generation calls per operation and outcome over the
// window given by ?window= (a Go duration, default 24h).
func (a *App) UsageSummary(w http.ResponseWriter, r *http.Request) {
	if a.Usage == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "usage reporting requires DATABASE_URL")
		return
	}
	window := 24 * time.Hour
	if raw := r.URL.Query().Get("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 || d > maxUsageWindow {
			a.error(w, http.StatusBadRequest, "bad_request", "window must be a duration between 1s and 720h")
			return
		}
		window = d
	}
	since := a.Now().Add(-window)
	rows, err := a.Usage.Summary(r.Context(), since)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load usage summary")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load usage")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"since": since.UTC(),
		"items": rows,
	})
}
