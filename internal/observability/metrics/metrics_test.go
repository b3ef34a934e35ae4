package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreMetrics(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m, err := NewStoreMetrics(reg)
	require.NoError(t, err)

	m.RecordDbOperation("create", "observations", StatusSuccess)
	m.RecordDbOperation("create", "observations", StatusSuccess)
	m.RecordDbOperationError("update", "photos", "database_locked")
	m.RecordDbOperationDuration("query", "tags", 0.002)
	m.RecordRowsAffected("query", "tags", 12)
	m.RecordRowsAffected("query", "tags", -1)

	assert.InDelta(t, 2, testutil.ToFloat64(m.operationsTotal.WithLabelValues("create", "observations", StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.operationErrorsTotal.WithLabelValues("update", "photos", "database_locked")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.operationDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.rowsAffected), "negative row counts are ignored")

	_, err = NewStoreMetrics(reg)
	assert.Error(t, err, "registering twice fails")
}

func TestClassificationMetrics_Recorder(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m, err := NewClassificationMetrics(reg)
	require.NoError(t, err)

	var r Recorder = m
	r.RecordOperation(OpDownload, StatusSuccess)
	r.RecordDuration(OpDownload, 1.5)
	r.RecordError(OpImportCSV, "validation")
	m.RecordImportedRows(10, 2)
	m.RecordDownloadBytes(2048)

	assert.InDelta(t, 1, testutil.ToFloat64(m.operationsTotal.WithLabelValues(OpDownload, StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.errorsTotal.WithLabelValues(OpImportCSV, "validation")), 0)
	assert.InDelta(t, 10, testutil.ToFloat64(m.importedRows.WithLabelValues("imported")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.importedRows.WithLabelValues("skipped")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.downloadBytes))
}

func TestHTTPMetrics_InFlight(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(reg, nil)
	require.NoError(t, err)

	m.RequestStarted()
	m.RequestStarted()
	assert.InDelta(t, 2, m.InFlight(), 0)

	m.RecordHTTPRequest("GET", "/api/v1/lifelists", 200, 0.01, 512)
	assert.InDelta(t, 1, m.InFlight(), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/v1/lifelists", "200")), 0)
}

func TestOrNop(t *testing.T) {
	t.Parallel()
	assert.IsType(t, NopRecorder{}, OrNop(nil))

	m, err := NewClassificationMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	assert.Same(t, m, OrNop(m))
}
