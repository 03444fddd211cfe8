package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsSynced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_synced_total",
		Help: "Events inserted or updated by reconciliation, per source.",
	}, []string{"source"})

	EventsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_skipped_total",
		Help: "Events that failed reconciliation, per source.",
	}, []string{"source"})

	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_runs_total",
		Help: "Sync invocations, per source and outcome.",
	}, []string{"source", "outcome"})

	ExtractionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "url_import_extraction_failures_total",
		Help: "URL imports where the model reply could not be decoded.",
	})
)
