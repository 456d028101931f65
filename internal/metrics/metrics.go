// Package metrics records dashboard query metrics for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the query metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	datasetRows   prometheus.Gauge
	loadDuration  prometheus.Gauge
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		queriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salarydash_queries_total",
				Help: "Total number of dashboard queries",
			},
			[]string{"query", "status"},
		),
		queryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "salarydash_query_duration_seconds",
				Help:    "Query duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"query"},
		),
		datasetRows: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "salarydash_dataset_rows",
				Help: "Number of rows in the loaded dataset",
			},
		),
		loadDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "salarydash_dataset_load_seconds",
				Help: "Time taken to load the dataset",
			},
		),
	}
}

// ObserveQuery records one query outcome.
func (c *Collector) ObserveQuery(query string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.queriesTotal.WithLabelValues(query, status).Inc()
	c.queryDuration.WithLabelValues(query).Observe(d.Seconds())
}

// ObserveLoad records the dataset size and load time.
func (c *Collector) ObserveLoad(rows int, d time.Duration) {
	c.datasetRows.Set(float64(rows))
	c.loadDuration.Set(d.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
