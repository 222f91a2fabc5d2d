// Package metrics registers the Prometheus collectors the scheduler
// exposes: task-queue depth per priority band, next_task poll latency,
// itinerary-search duration, and pathing-oracle call outcomes. kubernaut
// depends on prometheus/client_golang throughout its gateway and workflow
// services; this package gives that dependency a home in the scheduling
// domain rather than dropping it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry groups the collectors so callers register them once against a
// prometheus.Registerer (typically prometheus.DefaultRegisterer).
type Registry struct {
	QueueDepth         *prometheus.GaugeVec
	NextTaskLatency    prometheus.Histogram
	ItinerarySearch    prometheus.Histogram
	PathingOutcomes    *prometheus.CounterVec
	TaskAdmissions     *prometheus.CounterVec
	WorkerTaskDuration *prometheus.HistogramVec
}

// NewRegistry constructs the collector set without registering it.
func NewRegistry() *Registry {
	return &Registry{
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "scheduler",
			Subsystem: "taskqueue",
			Name:      "depth",
			Help:      "Number of tasks currently queued, by priority band.",
		}, []string{"priority"}),
		NextTaskLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scheduler",
			Subsystem: "taskqueue",
			Name:      "next_task_latency_seconds",
			Help:      "Latency of a single next_task poll round trip.",
			Buckets:   prometheus.DefBuckets,
		}),
		ItinerarySearch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scheduler",
			Subsystem: "itinerary",
			Name:      "search_duration_seconds",
			Help:      "Duration of a full itinerary search.",
			Buckets:   prometheus.DefBuckets,
		}),
		PathingOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduler",
			Subsystem: "pathing",
			Name:      "outcomes_total",
			Help:      "Outcomes of calls to the geospatial pathing oracle.",
		}, []string{"outcome"}),
		TaskAdmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduler",
			Subsystem: "taskqueue",
			Name:      "admissions_total",
			Help:      "Task admissions, by priority and outcome.",
		}, []string{"priority", "outcome"}),
		WorkerTaskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scheduler",
			Subsystem: "worker",
			Name:      "task_duration_seconds",
			Help:      "Duration of a single worker task execution, by action and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action", "outcome"}),
	}
}

// MustRegister registers every collector against reg, panicking on a
// duplicate-registration error (reserved for process startup).
func (r *Registry) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		r.QueueDepth,
		r.NextTaskLatency,
		r.ItinerarySearch,
		r.PathingOutcomes,
		r.TaskAdmissions,
		r.WorkerTaskDuration,
	)
}
