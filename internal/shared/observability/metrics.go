package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "codescope_scan_seconds",
		Help:    "Time spent scanning and extracting a project tree.",
		Buckets: prometheus.DefBuckets,
	})

	ExtractDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codescope_extract_seconds",
		Help:    "Time spent reading, hashing, and extracting a single file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codescope_analysis_seconds",
		Help:    "Time spent on post-scan analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	FilesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codescope_files_processed_total",
		Help: "Total number of files processed across all scans.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codescope_graph_nodes_total",
		Help: "Number of files in the most recent dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codescope_graph_edges_total",
		Help: "Number of import edges in the most recent dependency graph.",
	})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codescope_sessions_active",
		Help: "Number of analysis sessions currently tracked by the registry.",
	})

	ProgressSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codescope_progress_subscribers",
		Help: "Number of connected progress stream subscribers.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codescope_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codescope_http_requests_total",
		Help: "Total number of HTTP API requests by route and status code.",
	}, []string{"route", "code"})
)
