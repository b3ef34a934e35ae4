package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ClassificationMetrics tracks taxonomy downloads and imports. It implements Recorder.
type ClassificationMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	importedRows      *prometheus.CounterVec
	downloadBytes     prometheus.Histogram

	collectors []prometheus.Collector
}

// NewClassificationMetrics creates and registers classification metrics.
func NewClassificationMetrics(registry *prometheus.Registry) (*ClassificationMetrics, error) {
	m := &ClassificationMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ClassificationMetrics) initMetrics() {
	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifelist_classification_operations_total",
			Help: "Total number of classification downloads and imports",
		},
		[]string{"operation", "status"},
	)

	m.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifelist_classification_operation_duration_seconds",
			Help:    "Time taken for classification downloads and imports",
			Buckets: prometheus.ExponentialBuckets(BucketStart100ms, BucketFactor2, BucketCount12), // 100ms to ~3.4m
		},
		[]string{"operation"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifelist_classification_errors_total",
			Help: "Total number of classification operation errors",
		},
		[]string{"operation", "error_type"},
	)

	m.importedRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifelist_classification_rows_total",
			Help: "Classification rows seen by imports",
		},
		[]string{"result"}, // imported, skipped
	)

	m.downloadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lifelist_classification_download_bytes",
			Help:    "Size of downloaded classification files",
			Buckets: prometheus.ExponentialBuckets(BucketStart1KB, BucketFactor10, BucketCount6), // 1KB to ~100MB
		},
	)

	m.collectors = []prometheus.Collector{
		m.operationsTotal,
		m.operationDuration,
		m.errorsTotal,
		m.importedRows,
		m.downloadBytes,
	}
}

// Describe implements the Collector interface
func (m *ClassificationMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *ClassificationMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordOperation implements Recorder.
func (m *ClassificationMetrics) RecordOperation(operation, status string) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordDuration implements Recorder.
func (m *ClassificationMetrics) RecordDuration(operation string, seconds float64) {
	m.operationDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordError implements Recorder.
func (m *ClassificationMetrics) RecordError(operation, errorType string) {
	m.errorsTotal.WithLabelValues(operation, errorType).Inc()
}

// RecordImportedRows records the outcome of one import.
func (m *ClassificationMetrics) RecordImportedRows(imported, skipped int) {
	m.importedRows.WithLabelValues("imported").Add(float64(imported))
	m.importedRows.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordDownloadBytes records the size of a downloaded file.
func (m *ClassificationMetrics) RecordDownloadBytes(n int64) {
	m.downloadBytes.Observe(float64(n))
}
