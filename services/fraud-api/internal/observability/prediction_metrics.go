package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraud_api",
			Name:      "predictions_total",
			Help:      "Completed predictions by verdict",
		},
		[]string{"verdict"},
	)

	PredictionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraud_api",
			Name:      "prediction_failures_total",
			Help:      "Failed /predict requests by reason",
		},
		[]string{"reason"},
	)

	FlaggedPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fraud_api",
			Name:      "flagged_persisted_total",
			Help:      "Flagged transactions written to storage",
		},
	)

	ModelLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fraud_api",
			Name:      "model_loaded",
			Help:      "1 when a classifier is loaded, 0 in degraded mode",
		},
	)

	InferenceLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fraud_api",
			Name:      "model_inference_seconds",
			Help:      "Classifier latency per prediction",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Failure reasons
const (
	ReasonInvalidInput     = "invalid_input"
	ReasonModelUnavailable = "model_unavailable"
	ReasonPrediction       = "prediction_error"
	ReasonStorage          = "storage_error"
)
