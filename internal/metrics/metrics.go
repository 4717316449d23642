// Package metrics exposes Prometheus instrumentation for the API server and
// the delivery worker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the CRM service
type Metrics struct {
	// API metrics
	APIRequestsTotal          *prometheus.CounterVec
	APIRequestDurationSeconds *prometheus.HistogramVec

	// Delivery pipeline
	DeliveriesSentTotal   prometheus.Counter
	DeliveriesFailedTotal prometheus.Counter
	QueueSize             prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered on a
// dedicated registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crm_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		DeliveriesSentTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "crm_deliveries_sent_total",
				Help: "Total number of successfully delivered campaign messages",
			},
		),
		DeliveriesFailedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "crm_deliveries_failed_total",
				Help: "Total number of failed campaign message deliveries",
			},
		),
		QueueSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "crm_delivery_queue_size",
				Help: "Number of delivery jobs waiting in the queue",
			},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.APIRequestsTotal,
		m.APIRequestDurationSeconds,
		m.DeliveriesSentTotal,
		m.DeliveriesFailedTotal,
		m.QueueSize,
		collectors.NewGoCollector(),
	)

	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
