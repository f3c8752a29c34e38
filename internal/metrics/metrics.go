// Package metrics defines the pipeline's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CandidatesScraped counts raw records produced per source.
	CandidatesScraped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventpipe_candidates_scraped_total",
			Help: "Raw candidate records produced by source adapters",
		},
		[]string{"source"},
	)

	// AdapterFailures counts per-source fetch failures (full or partial).
	AdapterFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventpipe_adapter_failures_total",
			Help: "Source adapter fetch failures",
		},
		[]string{"source", "status"},
	)

	// RecordsRejected counts validator rejects by reason.
	RecordsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventpipe_records_rejected_total",
			Help: "Candidate records rejected during validation",
		},
		[]string{"reason"},
	)

	// RecordsFlagged counts validator flags by reason.
	RecordsFlagged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventpipe_records_flagged_total",
			Help: "Candidate records flagged for operator review",
		},
		[]string{"reason"},
	)

	// RunsTotal counts pipeline runs by terminal status.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventpipe_runs_total",
			Help: "Pipeline runs by status",
		},
		[]string{"status"},
	)

	// RunDuration observes end-to-end run latency.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventpipe_run_duration_seconds",
			Help:    "End-to-end pipeline run duration",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	// DuplicatesMerged counts admitted candidates collapsed into an
	// already-kept event during deduplication.
	DuplicatesMerged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventpipe_duplicates_merged_total",
			Help: "Candidates merged into another event as duplicates",
		},
	)

	// EventsPublished reports the size of the last committed dataset.
	EventsPublished = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventpipe_events_published",
			Help: "Events in the last committed canonical dataset",
		},
	)

	// LastRunTimestamp reports the completion time of the last successful run.
	LastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventpipe_last_run_timestamp_seconds",
			Help: "Unix time of the last successful pipeline run",
		},
	)
)
