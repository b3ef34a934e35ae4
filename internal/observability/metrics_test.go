package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observability/metrics"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	t.Parallel()

	a, err := NewMetrics(nil)
	require.NoError(t, err)
	b, err := NewMetrics(nil)
	require.NoError(t, err, "a second registry does not collide with the first")

	assert.NotSame(t, a.Registry(), b.Registry())
	assert.NotNil(t, a.Store)
	assert.NotNil(t, a.HTTP)
	assert.NotNil(t, a.Classification)
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics(nil)
	require.NoError(t, err)
	m.Classification.RecordOperation(metrics.OpDownload, metrics.StatusSuccess)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `lifelist_classification_operations_total{operation="download",status="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
