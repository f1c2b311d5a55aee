// Package metrics exposes care, weather and reminder activity as Prometheus metrics.
//
// A nil *Recorder is valid and records nothing, so callers never need to check
// whether metrics are enabled.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/bamboocare/internal/constants"
)

type Recorder struct {
	registry    *prometheus.Registry
	operations  *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	careEvents  *prometheus.CounterVec
	adjustments *prometheus.CounterVec
	reminders   *prometheus.CounterVec
	plantsDue   *prometheus.GaugeVec
}

// New builds a recorder on its own registry. Process and Go runtime collectors
// are included when withRuntime is set.
func New(withRuntime bool) *Recorder {
	reg := prometheus.NewRegistry()
	ns := constants.AppName

	r := &Recorder{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "operations_total",
			Help:      "Care service operations by outcome.",
		}, []string{"operation", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "operation_duration_seconds",
			Help:      "Care service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		careEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "care_events_total",
			Help:      "Care log entries recorded, by type.",
		}, []string{"type"}),
		adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "weather_adjustments_total",
			Help:      "Weather adjustments applied to schedules, by kind.",
		}, []string{"kind"}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "reminders_dispatched_total",
			Help:      "Reminder deliveries, by outcome.",
		}, []string{"status"}),
		plantsDue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "plants",
			Help:      "Plants by watering urgency at the last dashboard refresh.",
		}, []string{"urgency"}),
	}

	reg.MustRegister(r.operations, r.durations, r.careEvents, r.adjustments, r.reminders, r.plantsDue)
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

// Observe records a service operation outcome.
func (r *Recorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if r == nil || operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.operations.WithLabelValues(operation, status).Inc()
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

func (r *Recorder) CareEvent(careType string) {
	if r == nil {
		return
	}
	r.careEvents.WithLabelValues(careType).Inc()
}

func (r *Recorder) Adjustment(kind string) {
	if r == nil {
		return
	}
	r.adjustments.WithLabelValues(kind).Inc()
}

func (r *Recorder) Reminder(status string) {
	if r == nil {
		return
	}
	r.reminders.WithLabelValues(status).Inc()
}

// SetUrgencyCounts replaces the per-urgency plant gauge.
func (r *Recorder) SetUrgencyCounts(counts map[string]int) {
	if r == nil {
		return
	}
	r.plantsDue.Reset()
	for urgency, n := range counts {
		r.plantsDue.WithLabelValues(urgency).Set(float64(n))
	}
}

// Gatherer returns the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metrics for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
