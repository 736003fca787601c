// Package metrics implements observability hooks on Prometheus collectors.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jedrzejginter/toolkit/pkg/observability"
)

// Metrics holds the toolkit's collectors. It implements observability.Hooks.
type Metrics struct {
	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	runPackages   prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolkit_pipeline_runs_total",
				Help: "Number of pipeline runs by terminal state.",
			},
			[]string{"state"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "toolkit_pipeline_run_duration_seconds",
				Help:    "Time taken by a pipeline run.",
				Buckets: prometheus.DefBuckets,
			},
		),
		runPackages: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "toolkit_pipeline_run_packages",
				Help:    "Distinct dependency names resolved per run.",
				Buckets: prometheus.LinearBuckets(5, 5, 10),
			},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolkit_pipeline_stage_duration_seconds",
				Help:    "Time taken by each pipeline stage.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		stageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolkit_pipeline_stage_errors_total",
				Help: "Number of failed pipeline stages.",
			},
			[]string{"stage"},
		),
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolkit_registry_queries_total",
				Help: "Registry queries by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolkit_registry_query_duration_seconds",
				Help:    "Time taken by registry queries.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolkit_registry_cache_lookups_total",
				Help: "Registry response cache lookups by result.",
			},
			[]string{"kind", "result"},
		),
	}
	reg.MustRegister(
		m.runsTotal,
		m.runDuration,
		m.runPackages,
		m.stageDuration,
		m.stageErrors,
		m.queriesTotal,
		m.queryDuration,
		m.cacheLookups,
	)
	return m
}

func (m *Metrics) OnStageStart(context.Context, string) {}

func (m *Metrics) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) OnRunComplete(_ context.Context, state string, packages int, d time.Duration) {
	m.runsTotal.WithLabelValues(state).Inc()
	m.runDuration.Observe(d.Seconds())
	m.runPackages.Observe(float64(packages))
}

// OnQuery deliberately drops the package name: it would make label
// cardinality unbounded.
func (m *Metrics) OnQuery(_ context.Context, kind, _ string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.queriesTotal.WithLabelValues(kind, outcome).Inc()
	m.queryDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, kind string) {
	m.cacheLookups.WithLabelValues(kind, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, kind string) {
	m.cacheLookups.WithLabelValues(kind, "miss").Inc()
}

var _ observability.Hooks = (*Metrics)(nil)
