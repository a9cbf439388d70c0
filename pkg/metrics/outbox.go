package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OutboxMetrics tracks the publisher loop.
type OutboxMetrics struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// NewOutboxMetrics registers outbox publisher metrics on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vetri",
		Subsystem: "outbox",
		Name:      "events_published",
		Help:      "Outbox events published to Pub/Sub.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vetri",
		Subsystem: "outbox",
		Name:      "events_failed",
		Help:      "Outbox publish attempts that failed.",
	}, []string{"event_type"})
	reg.MustRegister(published, failed)
	return &OutboxMetrics{published: published, failed: failed}
}

// IncPublished increments the published counter for an event type.
func (o *OutboxMetrics) IncPublished(eventType string) {
	if o == nil || o.published == nil {
		return
	}
	o.published.WithLabelValues(eventType).Inc()
}

// IncFailed increments the failed counter for an event type.
func (o *OutboxMetrics) IncFailed(eventType string) {
	if o == nil || o.failed == nil {
		return
	}
	o.failed.WithLabelValues(eventType).Inc()
}
