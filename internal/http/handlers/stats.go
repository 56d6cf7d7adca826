package handlers

import (
	"net/http"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Scores.Summary(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("stats summary failed")
		a.error(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_checks": stats.TotalChecks,
		"fraud_count":  stats.FraudCount,
		"checks_24h":   stats.Checks24h,
		"fraud_24h":    stats.Fraud24h,
	})
}
