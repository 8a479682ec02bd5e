// Package telemetry provides OpenTelemetry instrumentation for the
// moderation service. It exports Prometheus metrics and provides tracing
// capabilities.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "moderation"

// Metrics holds all moderation Prometheus metrics
type Metrics struct {
	// Pipeline metrics
	SubmissionsTotal   *prometheus.CounterVec
	ProcessingDuration prometheus.Histogram
	ScorerFailures     prometheus.Counter
	ScorerDuration     prometheus.Histogram

	// Side-effect metrics
	SideEffectFailures *prometheus.CounterVec
	NotificationsSent  prometheus.Counter
	ViolationsRecorded *prometheus.CounterVec

	// Publisher metrics
	PublishAttempts   *prometheus.CounterVec
	PublishFailures   *prometheus.CounterVec
	PublishQueueDepth prometheus.Gauge
	PublishDropped    prometheus.Counter

	// Event metrics
	EventsPublished prometheus.Counter
	EventFailures   prometheus.Counter
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics on the
// default registry.
func NewProvider() *Provider {
	return NewProviderFor(prometheus.DefaultRegisterer)
}

// NewProviderFor initializes telemetry against a specific registry.
func NewProviderFor(reg prometheus.Registerer) *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(promauto.With(reg)),
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics(factory promauto.Factory) *Metrics {
	m := &Metrics{}
	initPipelineMetrics(m, factory)
	initSideEffectMetrics(m, factory)
	initPublisherMetrics(m, factory)
	initEventMetrics(m, factory)
	return m
}

func initPipelineMetrics(m *Metrics, factory promauto.Factory) {
	m.SubmissionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_submissions_total",
		Help: "Total submissions processed by final classification",
	}, []string{"classification"})

	m.ProcessingDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "moderation_processing_duration_seconds",
		Help:    "End-to-end time to moderate a single submission",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	})

	m.ScorerFailures = factory.NewCounter(prometheus.CounterOpts{
		Name: "moderation_scorer_failures_total",
		Help: "Total scorer failures that degraded to the safe default",
	})

	m.ScorerDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "moderation_scorer_duration_seconds",
		Help:    "Time spent in the scoring stage",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0},
	})
}

func initSideEffectMetrics(m *Metrics, factory promauto.Factory) {
	m.SideEffectFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_side_effect_failures_total",
		Help: "Total dispatcher side effects that failed and were logged",
	}, []string{"effect"})

	m.NotificationsSent = factory.NewCounter(prometheus.CounterOpts{
		Name: "moderation_notifications_sent_total",
		Help: "Total rejection notifications recorded for authors",
	})

	m.ViolationsRecorded = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_violations_recorded_total",
		Help: "Total author violations recorded by type",
	}, []string{"violation_type"})
}

func initPublisherMetrics(m *Metrics, factory promauto.Factory) {
	m.PublishAttempts = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_publish_attempts_total",
		Help: "Total social publish attempts by platform",
	}, []string{"platform"})

	m.PublishFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_publish_failures_total",
		Help: "Total social publish failures by platform",
	}, []string{"platform"})

	m.PublishQueueDepth = factory.NewGauge(prometheus.GaugeOpts{
		Name: "moderation_publish_queue_depth",
		Help: "Current jobs waiting in the publish queue",
	})

	m.PublishDropped = factory.NewCounter(prometheus.CounterOpts{
		Name: "moderation_publish_dropped_total",
		Help: "Publish jobs dropped due to queue full",
	})
}

func initEventMetrics(m *Metrics, factory promauto.Factory) {
	m.EventsPublished = factory.NewCounter(prometheus.CounterOpts{
		Name: "moderation_events_published_total",
		Help: "Total classified events published to Redis",
	})

	m.EventFailures = factory.NewCounter(prometheus.CounterOpts{
		Name: "moderation_event_failures_total",
		Help: "Total classified events that failed to publish",
	})
}

// RecordSubmission records metrics for a single moderated submission
func (p *Provider) RecordSubmission(classification string, duration time.Duration) {
	p.Metrics.SubmissionsTotal.WithLabelValues(classification).Inc()
	p.Metrics.ProcessingDuration.Observe(duration.Seconds())
}

// RecordScorer records the scoring stage outcome
func (p *Provider) RecordScorer(duration time.Duration, degraded bool) {
	p.Metrics.ScorerDuration.Observe(duration.Seconds())
	if degraded {
		p.Metrics.ScorerFailures.Inc()
	}
}

// RecordSideEffectFailure records a failed dispatcher side effect
func (p *Provider) RecordSideEffectFailure(effect string) {
	p.Metrics.SideEffectFailures.WithLabelValues(effect).Inc()
}

// RecordPublish records a publish attempt for a platform
func (p *Provider) RecordPublish(platform string, success bool) {
	p.Metrics.PublishAttempts.WithLabelValues(platform).Inc()
	if !success {
		p.Metrics.PublishFailures.WithLabelValues(platform).Inc()
	}
}
