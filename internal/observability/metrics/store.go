package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics contains Prometheus metrics for database operations. Operations are labeled
// with the gorm statement kind (create, query, update, delete, row, raw) and the table.
type StoreMetrics struct {
	operationsTotal      *prometheus.CounterVec
	operationDuration    *prometheus.HistogramVec
	operationErrorsTotal *prometheus.CounterVec
	rowsAffected         *prometheus.HistogramVec

	collectors []prometheus.Collector
}

// NewStoreMetrics creates and registers store metrics.
func NewStoreMetrics(registry *prometheus.Registry) (*StoreMetrics, error) {
	m := &StoreMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *StoreMetrics) initMetrics() {
	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifelist_db_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "table", "status"},
	)

	m.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifelist_db_operation_duration_seconds",
			Help:    "Time taken for database operations",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount15), // 1ms to ~16s
		},
		[]string{"operation", "table"},
	)

	m.operationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifelist_db_operation_errors_total",
			Help: "Total number of database operation errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	m.rowsAffected = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifelist_db_rows_affected",
			Help:    "Rows returned or written per database operation",
			Buckets: prometheus.ExponentialBuckets(1, BucketFactor4, BucketCount10), // 1 to ~260k
		},
		[]string{"operation", "table"},
	)

	m.collectors = []prometheus.Collector{
		m.operationsTotal,
		m.operationDuration,
		m.operationErrorsTotal,
		m.rowsAffected,
	}
}

// Describe implements the Collector interface
func (m *StoreMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *StoreMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordDbOperation records a database operation
func (m *StoreMetrics) RecordDbOperation(operation, table, status string) {
	m.operationsTotal.WithLabelValues(operation, table, status).Inc()
}

// RecordDbOperationDuration records the duration of a database operation
func (m *StoreMetrics) RecordDbOperationDuration(operation, table string, seconds float64) {
	m.operationDuration.WithLabelValues(operation, table).Observe(seconds)
}

// RecordDbOperationError records a database operation error
func (m *StoreMetrics) RecordDbOperationError(operation, table, errorType string) {
	m.operationErrorsTotal.WithLabelValues(operation, table, errorType).Inc()
}

// RecordRowsAffected records the row count of an operation.
func (m *StoreMetrics) RecordRowsAffected(operation, table string, rows int64) {
	if rows < 0 {
		return
	}
	m.rowsAffected.WithLabelValues(operation, table).Observe(float64(rows))
}
