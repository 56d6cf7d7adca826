package handlers

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"effortnet/internal/domain"
	"effortnet/internal/scoring"
)

var (
	scoreChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "effortnet_score_checks_total",
		Help: "Completed scoring calls by platform and fraud verdict.",
	}, []string{"platform", "fraud"})

	scoreLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "effortnet_score_latency_seconds",
		Help:    "End-to-end latency of scoring calls.",
		Buckets: prometheus.DefBuckets,
	})
)

func observeScore(p domain.Platform, result scoring.Result, latencyMS int) {
	scoreChecksTotal.WithLabelValues(string(p), strconv.FormatBool(result.FraudSignal)).Inc()
	scoreLatency.Observe(float64(latencyMS) / 1000)
}

// Metrics exposes the Prometheus registry.
func Metrics() http.Handler {
	return promhttp.Handler()
}
