// Package metrics exposes suggestion pipeline activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kinship"

// Metrics implements ports.SuggestionMetrics on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	Generated       prometheus.Counter
	Saved           prometheus.Counter
	Purged          prometheus.Counter
	RefreshFailures *prometheus.CounterVec
	TaskFailures    *prometheus.CounterVec
	RefreshSeconds  prometheus.Histogram
}

// New creates the metrics and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_generated_total",
			Help:      "Candidates produced by the suggestion generator",
		}),
		Saved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_saved_total",
			Help:      "Pending suggestions inserted",
		}),
		Purged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_purged_total",
			Help:      "Stale pending suggestions deleted",
		}),
		RefreshFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_failures_total",
			Help:      "Failed suggestion refreshes by trigger",
		}, []string{"trigger"}),
		TaskFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_failures_total",
			Help:      "Background tasks that failed after every attempt",
		}, []string{"task"}),
		RefreshSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Time spent refreshing one subject's suggestions",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}

	m.registry.MustRegister(
		m.Generated,
		m.Saved,
		m.Purged,
		m.RefreshFailures,
		m.TaskFailures,
		m.RefreshSeconds,
	)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) SuggestionsGenerated(n int) { m.Generated.Add(float64(n)) }
func (m *Metrics) SuggestionsSaved(n int)     { m.Saved.Add(float64(n)) }
func (m *Metrics) SuggestionsPurged(n int)    { m.Purged.Add(float64(n)) }

func (m *Metrics) RefreshFailed(trigger string) {
	m.RefreshFailures.WithLabelValues(trigger).Inc()
}

func (m *Metrics) RefreshDuration(d time.Duration) {
	m.RefreshSeconds.Observe(d.Seconds())
}

func (m *Metrics) TaskFailed(task string) {
	m.TaskFailures.WithLabelValues(task).Inc()
}

// WriteTextfile writes the metrics to path in the text exposition format,
// for the node-exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
