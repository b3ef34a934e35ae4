// Package observability bundles the Prometheus collectors of the lifelist tracker into one
// registry and serves them.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry       *prometheus.Registry
	Store          *metrics.StoreMetrics
	HTTP           *metrics.HTTPMetrics
	Classification *metrics.ClassificationMetrics
	log            logger.Logger
}

// NewMetrics creates a registry with every collector registered. Each call returns an
// independent registry.
func NewMetrics(log logger.Logger) (*Metrics, error) {
	log = logger.OrDiscard(log).Module("metrics")
	registry := prometheus.NewRegistry()

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register Go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	storeMetrics, err := metrics.NewStoreMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Store metrics: %w", err)
	}

	httpMetrics, err := metrics.NewHTTPMetrics(registry, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	classificationMetrics, err := metrics.NewClassificationMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Classification metrics: %w", err)
	}

	return &Metrics{
		registry:       registry,
		Store:          storeMetrics,
		HTTP:           httpMetrics,
		Classification: classificationMetrics,
		log:            log,
	}, nil
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      errorLog{m.log},
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// errorLog adapts Logger to promhttp.Logger.
type errorLog struct {
	log logger.Logger
}

func (e errorLog) Println(v ...any) {
	e.log.Error("metrics handler error", logger.String("detail", fmt.Sprint(v...)))
}
