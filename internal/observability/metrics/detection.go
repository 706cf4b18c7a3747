package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type DetectionMetrics struct {
	registry *prometheus.Registry

	detectTotal         *prometheus.CounterVec
	detectDuration      *prometheus.HistogramVec
	recognizeDuration   *prometheus.HistogramVec
	recognizeConfidence *prometheus.HistogramVec
	adapterCallsTotal   *prometheus.CounterVec
	fieldsDetected      *prometheus.HistogramVec
}

func NewDetectionMetrics() *DetectionMetrics {
	registry := prometheus.NewRegistry()

	detectTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arsip",
			Subsystem: "detect",
			Name:      "requests_total",
			Help:      "Total detect requests by strategy, direction and outcome.",
		},
		[]string{"service", "strategy", "direction", "outcome"},
	)
	detectDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arsip",
			Subsystem: "detect",
			Name:      "duration_seconds",
			Help:      "End-to-end detect duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "strategy"},
	)
	recognizeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arsip",
			Subsystem: "recognize",
			Name:      "duration_seconds",
			Help:      "Recognition duration in seconds by method.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 45, 90},
		},
		[]string{"service", "method"},
	)
	recognizeConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arsip",
			Subsystem: "recognize",
			Name:      "confidence",
			Help:      "Distribution of recognition confidence scores (0-100).",
			Buckets:   []float64{0, 10, 25, 40, 55, 70, 80, 90, 95, 100},
		},
		[]string{"service", "method"},
	)
	adapterCallsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arsip",
			Subsystem: "ai",
			Name:      "adapter_calls_total",
			Help:      "Total model-service adapter calls by status.",
		},
		[]string{"service", "status"},
	)
	fieldsDetected := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arsip",
			Subsystem: "detect",
			Name:      "fields_detected",
			Help:      "Detected fields per request.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6},
		},
		[]string{"service", "strategy"},
	)

	registry.MustRegister(
		detectTotal,
		detectDuration,
		recognizeDuration,
		recognizeConfidence,
		adapterCallsTotal,
		fieldsDetected,
	)

	return &DetectionMetrics{
		registry:            registry,
		detectTotal:         detectTotal,
		detectDuration:      detectDuration,
		recognizeDuration:   recognizeDuration,
		recognizeConfidence: recognizeConfidence,
		adapterCallsTotal:   adapterCallsTotal,
		fieldsDetected:      fieldsDetected,
	}
}

func (m *DetectionMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *DetectionMetrics) RecordDetect(service, strategy, direction, outcome string, detected int, duration time.Duration) {
	if outcome == "" {
		outcome = "ok"
	}
	m.detectTotal.WithLabelValues(service, strategy, direction, outcome).Inc()
	m.detectDuration.WithLabelValues(service, strategy).Observe(duration.Seconds())
	m.fieldsDetected.WithLabelValues(service, strategy).Observe(float64(detected))
}

func (m *DetectionMetrics) RecordRecognition(service, method string, confidence float64, duration time.Duration) {
	if method == "" {
		method = "unknown"
	}
	m.recognizeDuration.WithLabelValues(service, method).Observe(duration.Seconds())
	m.recognizeConfidence.WithLabelValues(service, method).Observe(confidence)
}

func (m *DetectionMetrics) RecordAdapterCall(service string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.adapterCallsTotal.WithLabelValues(service, status).Inc()
}

// RecordAdapterUnavailable counts requests that wanted the adapter while it
// was not configured. No call is attempted, so it must not land in the
// error status.
func (m *DetectionMetrics) RecordAdapterUnavailable(service string) {
	m.adapterCallsTotal.WithLabelValues(service, "unavailable").Inc()
}
