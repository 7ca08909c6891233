// README: Prometheus collectors for planning, invocation and feedback.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voyage"

// Metrics groups every collector the engine reports. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	attempts       *prometheus.CounterVec
	invokeLatency  *prometheus.HistogramVec
	plans          *prometheus.CounterVec
	planLatency    prometheus.Histogram
	repairs        *prometheus.CounterVec
	feedback       *prometheus.CounterVec
	activityRecord *prometheus.CounterVec
	sinkFailures   *prometheus.CounterVec
}

// Config configures the collectors.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}
}

// New registers all collectors on a fresh or supplied registry.
func New(cfg Config) *Metrics {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
	}

	m := &Metrics{registry: registry}

	m.attempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "invoke",
		Name:      "attempts_total",
		Help:      "Model call attempts by provider and outcome",
	}, []string{"provider", "outcome"})

	m.invokeLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "invoke",
		Name:      "latency_seconds",
		Help:      "End-to-end model invocation latency including retries",
		Buckets:   cfg.LatencyBuckets,
	}, []string{"provider", "status"})

	m.plans = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "planner",
		Name:      "plans_total",
		Help:      "Planning calls by final stage and status",
	}, []string{"stage", "status"})

	m.planLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "planner",
		Name:      "latency_seconds",
		Help:      "Planning call latency",
		Buckets:   cfg.LatencyBuckets,
	})

	m.repairs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "assembler",
		Name:      "repairs_total",
		Help:      "Structural repairs applied to model output",
	}, []string{"kind"})

	m.feedback = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "feedback_total",
		Help:      "Itinerary feedback by rating",
	}, []string{"rating"})

	m.activityRecord = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "records_total",
		Help:      "Activity records appended by status",
	}, []string{"status"})

	m.sinkFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "sink_failures_total",
		Help:      "Activity records a sink failed to publish",
	}, []string{"sink"})

	registry.MustRegister(
		m.attempts, m.invokeLatency,
		m.plans, m.planLatency,
		m.repairs, m.feedback,
		m.activityRecord, m.sinkFailures,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry (tests gather from it).
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAttempt(provider, outcome string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveInvocation(provider string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	m.invokeLatency.WithLabelValues(provider, statusLabel(ok)).Observe(d.Seconds())
}

func (m *Metrics) ObservePlan(stage string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	m.plans.WithLabelValues(stage, statusLabel(ok)).Inc()
	m.planLatency.Observe(d.Seconds())
}

func (m *Metrics) ObserveRepair(kind string) {
	if m == nil {
		return
	}
	m.repairs.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveFeedback(rating string) {
	if m == nil {
		return
	}
	m.feedback.WithLabelValues(rating).Inc()
}

func (m *Metrics) ObserveRecord(status string) {
	if m == nil {
		return
	}
	m.activityRecord.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveSinkFailure(sink string) {
	if m == nil {
		return
	}
	m.sinkFailures.WithLabelValues(sink).Inc()
}

func statusLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
