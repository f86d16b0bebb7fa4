// Package metrics provides Prometheus metrics collection for the dairy
// prediction service. It defines and manages prediction, batch and model
// lifecycle metrics exposed on the metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the prediction service.
type Metrics struct {
	// Prediction metrics
	PredictionsTotal   *prometheus.CounterVec // Successful predictions by kind
	PredictionFailures *prometheus.CounterVec // Failed predictions by kind
	PredictionLatency  prometheus.Histogram   // End-to-end prediction latency in seconds
	ConfidenceScores   prometheus.Histogram   // Distribution of reported confidence scores

	// Batch metrics
	BatchRequests *prometheus.CounterVec // Batch requests by kind
	BatchItems    prometheus.Counter     // Total batch items processed

	// Model lifecycle metrics
	ModelLoads        prometheus.Counter   // Artifact load attempts
	ModelLoadFailures prometheus.Counter   // Failed artifact loads
	ModelLoadDuration prometheus.Histogram // Artifact load duration in seconds
	ModelAvailable    *prometheus.GaugeVec // Per-family availability (1/0)

	// System metrics
	ErrorsTotal prometheus.Counter // Total number of errors encountered
}

// New creates and registers all Prometheus metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		PredictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of successful predictions",
		}, []string{"kind"}),
		PredictionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prediction_failures_total",
			Help: "Total number of failed predictions",
		}, []string{"kind"}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "Prediction latency in seconds (end-to-end)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		ConfidenceScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_confidence_scores",
			Help:    "Distribution of reported prediction confidence scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		BatchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_requests_total",
			Help: "Total number of batch prediction requests",
		}, []string{"kind"}),
		BatchItems: factory.NewCounter(prometheus.CounterOpts{
			Name: "batch_items_total",
			Help: "Total number of batch items processed",
		}),
		ModelLoads: factory.NewCounter(prometheus.CounterOpts{
			Name: "model_loads_total",
			Help: "Total number of model artifact load attempts",
		}),
		ModelLoadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "model_load_failures_total",
			Help: "Total number of failed model artifact loads",
		}),
		ModelLoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "model_load_duration_seconds",
			Help:    "Model artifact load duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ModelAvailable: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "model_available",
			Help: "Whether a model family is loaded and available (1/0)",
		}, []string{"family"}),
		ErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors encountered",
		}),
	}
}
