// Package metrics expone los contadores e histogramas Prometheus del servicio.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resultados posibles de una corrida de generacion.
const (
	OutcomeSuccess     = "success"
	OutcomeEmpty       = "empty"
	OutcomeNotFound    = "not_found"
	OutcomeBusy        = "busy"
	OutcomeRateLimited = "rate_limited"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
)

var (
	// GenerationsTotal cuenta corridas por resultado.
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compass_recommendation_generations_total",
			Help: "Total number of recommendation generation runs",
		},
		[]string{"outcome"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compass_recommendation_generation_duration_seconds",
			Help:    "Duration of recommendation generation runs in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// CandidatesScored mide cuantas actividades se puntuaron por corrida.
	CandidatesScored = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compass_recommendation_candidates",
			Help:    "Number of candidate activities scored per run",
			Buckets: []float64{0, 1, 5, 10, 20, 30, 40, 50},
		},
	)

	Selected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compass_recommendation_selected",
			Help:    "Number of activities selected per run",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 7, 10},
		},
	)

	// HTTPRequestsTotal usa la ruta registrada en gin, no la URL cruda, para acotar cardinalidad.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compass_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveGeneration registra el resultado y la duracion de una corrida.
func ObserveGeneration(outcome string, seconds float64) {
	GenerationsTotal.WithLabelValues(outcome).Inc()
	GenerationDuration.Observe(seconds)
}
