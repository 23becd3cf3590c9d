package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for an ETL run.
type Metrics struct {
	FilesProcessed  prometheus.Counter
	FileErrors      prometheus.Counter
	DatumsScanned   prometheus.Counter
	FixesEmitted    prometheus.Counter
	RecordErrors    *prometheus.CounterVec // labels: kind={structure,coordinate,tag,truncated,sink}
	PipelineRunning prometheus.Gauge

	RunDuration        prometheus.Histogram
	SinkInsertDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FilesProcessed,
		m.FileErrors,
		m.DatumsScanned,
		m.FixesEmitted,
		m.RecordErrors,
		m.PipelineRunning,
		m.RunDuration,
		m.SinkInsertDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argos_etl",
			Name:      "files_processed_total",
			Help:      "Input files opened and scanned.",
		}),
		FileErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argos_etl",
			Name:      "file_errors_total",
			Help:      "Input files that could not be opened or read to the end.",
		}),
		DatumsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argos_etl",
			Name:      "datums_scanned_total",
			Help:      "Header/location pairs found by the record scanner.",
		}),
		FixesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argos_etl",
			Name:      "fixes_emitted_total",
			Help:      "Fixes accepted by the sink.",
		}),
		RecordErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "argos_etl",
			Name:      "record_errors_total",
			Help:      "Datums skipped, by failure kind.",
		}, []string{"kind"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "argos_etl",
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "argos_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete directory run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
		SinkInsertDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "argos_etl",
			Name:      "sink_insert_duration_seconds",
			Help:      "Duration of a single sink insert.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}
}
