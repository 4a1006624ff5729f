package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "junitmig_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	RewriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "junitmig_rewrite_seconds",
		Help:    "Time spent running the rule driver over one compilation unit.",
		Buckets: prometheus.DefBuckets,
	})

	FilesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "junitmig_files_scanned_total",
		Help: "Total number of source files read.",
	})

	FilesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "junitmig_files_skipped_total",
		Help: "Total number of files skipped, by reason.",
	}, []string{"reason"})

	FilesChangedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "junitmig_files_changed_total",
		Help: "Total number of files whose content was rewritten.",
	})

	RewritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "junitmig_rewrites_total",
		Help: "Total number of rewritten call sites, by rule.",
	}, []string{"rule"})

	WarningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "junitmig_warnings_total",
		Help: "Total number of diagnostics, by code.",
	}, []string{"code"})

	UnitErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "junitmig_unit_errors_total",
		Help: "Total number of units left unchanged because of an error, by code.",
	}, []string{"code"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "junitmig_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "junitmig_run_seconds",
		Help:    "Wall time of a complete apply/check run.",
		Buckets: prometheus.DefBuckets,
	})
)
