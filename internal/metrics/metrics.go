// Package metrics exposes the prometheus collectors for the import pipeline.
//
// All recording methods are safe to call on a nil *Metrics so components can
// be constructed without instrumentation in tests and the CLI.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "portfolio"
	Subsystem = "import"
)

// Media resolution sources and outcomes.
const (
	SourceRemote      = "remote"
	SourceArchive     = "archive"
	SourcePassthrough = "passthrough"
	SourceCoerced     = "coerced"
	SourceUnknown     = "unknown"

	OutcomeResolved = "resolved"
	OutcomeFailed   = "failed"
	OutcomeIgnored  = "ignored"
)

type Metrics struct {
	RowsTotal        *prometheus.CounterVec
	BatchesTotal     *prometheus.CounterVec
	BatchDuration    *prometheus.HistogramVec
	MediaResolutions *prometheus.CounterVec
	ArchiveEntries   *prometheus.CounterVec
	JobsTotal        *prometheus.CounterVec
}

// New creates and registers all collectors. A nil registerer uses the
// prometheus default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "rows_total",
				Help:      "Spreadsheet rows processed, by outcome and failure kind",
			},
			[]string{"outcome", "kind"},
		),
		BatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "batches_total",
				Help:      "Import batches run, by trigger mode",
			},
			[]string{"mode"},
		),
		BatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "duration_seconds",
				Help:      "Wall time of a whole import batch",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14),
			},
			[]string{"mode"},
		),
		MediaResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "media",
				Name:      "resolutions_total",
				Help:      "Media references resolved, by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		ArchiveEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "media",
				Name:      "archive_entries_total",
				Help:      "Archive entries seen while indexing, by outcome",
			},
			[]string{"outcome"},
		),
		JobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "jobs_total",
				Help:      "Asynchronous import jobs, by final status",
			},
			[]string{"status"},
		),
	}
}

func (m *Metrics) RowOutcome(outcome, kind string) {
	if m == nil {
		return
	}
	m.RowsTotal.WithLabelValues(outcome, kind).Inc()
}

func (m *Metrics) Batch(mode string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.BatchesTotal.WithLabelValues(mode).Inc()
	m.BatchDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

func (m *Metrics) MediaResolution(source, outcome string) {
	if m == nil {
		return
	}
	m.MediaResolutions.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) ArchiveEntry(outcome string) {
	if m == nil {
		return
	}
	m.ArchiveEntries.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Job(status string) {
	if m == nil {
		return
	}
	m.JobsTotal.WithLabelValues(status).Inc()
}
