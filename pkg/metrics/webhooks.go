package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics records outbound webhook dispatch outcomes.
type WebhookMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	skipped  *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook metrics on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_dispatch_duration_seconds",
		Help:    "Duration of outbound webhook dispatches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event_type"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_dispatch_success",
		Help: "Webhook dispatches acknowledged with a 2xx response.",
	}, []string{"event_type"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_dispatch_failure",
		Help: "Webhook dispatches that failed to deliver.",
	}, []string{"event_type"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_dispatch_skipped",
		Help: "Webhook dispatches skipped because no signing secret is configured.",
	}, []string{"event_type"})
	reg.MustRegister(duration, success, failure, skipped)
	return &WebhookMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		skipped:  skipped,
	}
}

// ObserveDuration records the duration for the event type.
func (m *WebhookMetrics) ObserveDuration(eventType string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(eventType)).Observe(duration.Seconds())
}

// IncSuccess increments the delivered counter for the event type.
func (m *WebhookMetrics) IncSuccess(eventType string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailure increments the failed counter for the event type.
func (m *WebhookMetrics) IncFailure(eventType string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncSkipped increments the skipped counter for the event type.
func (m *WebhookMetrics) IncSkipped(eventType string) {
	if m == nil || m.skipped == nil {
		return
	}
	m.skipped.WithLabelValues(normalizeLabel(eventType)).Inc()
}

func normalizeLabel(eventType string) string {
	if eventType == "" {
		return "unknown"
	}
	return eventType
}
