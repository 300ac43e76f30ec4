package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StageMatches counts which arbitration stage produced the final
	// prediction, labeled by source ("rule", "hierarchical_ml", ...).
	StageMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagrouter_stage_matches_total",
			Help: "Number of classifications resolved by each arbitration stage",
		},
		[]string{"source"},
	)

	classificationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diagrouter_classification_duration_seconds",
			Help:    "End-to-end latency of a single classification call",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	predictionConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diagrouter_prediction_confidence",
			Help:    "Confidence of the final prediction",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	feedbackAppends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagrouter_feedback_appends_total",
			Help: "Feedback records appended, labeled by outcome",
		},
		[]string{"outcome"},
	)

	retrainRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagrouter_retrain_runs_total",
			Help: "Retraining job runs, labeled by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordStageMatch records the stage that produced the final prediction.
func RecordStageMatch(source string, confidence float64) {
	StageMatches.WithLabelValues(source).Inc()
	predictionConfidence.Observe(confidence)
}

// RecordClassificationLatency records end-to-end classification latency in seconds.
func RecordClassificationLatency(seconds float64) {
	classificationLatency.Observe(seconds)
}

// RecordFeedbackAppend records a feedback-store append attempt.
func RecordFeedbackAppend(err error) {
	if err != nil {
		feedbackAppends.WithLabelValues("error").Inc()
		return
	}
	feedbackAppends.WithLabelValues("ok").Inc()
}

// RecordRetrainRun records a completed retraining run.
func RecordRetrainRun(success bool) {
	if success {
		retrainRuns.WithLabelValues("success").Inc()
		return
	}
	retrainRuns.WithLabelValues("failure").Inc()
}
