// Package metrics provides the centralized Prometheus metrics registry for
// the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "predictions_total",
		Help:      "Total number of successful pit window predictions",
	})
	PredictionErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "prediction_errors_total",
		Help:      "Total number of failed predictions by error kind",
	}, []string{"kind"})
	StrategyProjectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "strategy_projections_total",
		Help:      "Total number of strategy impact projections",
	})
	LapsFilteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "laps_filtered_total",
		Help:      "Total number of laps dropped by the median pre-filter",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by path and status code",
	}, []string{"path", "status"})
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pitwall",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path"})
	PredictionConfidence = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitwall",
		Name:      "prediction_confidence",
		Help:      "Distribution of prediction confidence scores",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionErrorsTotal)
		registry.MustRegister(StrategyProjectionsTotal)
		registry.MustRegister(LapsFilteredTotal)
		registry.MustRegister(HTTPRequestsTotal)

		registry.MustRegister(RequestDuration)
		registry.MustRegister(PredictionConfidence)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records a successful pit window prediction.
func RecordPrediction(confidence float64) {
	PredictionsTotal.Inc()
	PredictionConfidence.Observe(confidence)
}

// RecordPredictionError records a failed prediction by error kind.
func RecordPredictionError(kind string) {
	PredictionErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordStrategyProjection records a strategy impact projection.
func RecordStrategyProjection() {
	StrategyProjectionsTotal.Inc()
}

// RecordLapsFiltered records laps dropped by the median pre-filter.
func RecordLapsFiltered(count int) {
	LapsFilteredTotal.Add(float64(count))
}
