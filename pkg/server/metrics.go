package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus collectors of one Server. Each Server owns
// its registry so tests can build many servers side by side.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ExtractionsTotal    *prometheus.CounterVec
	ExtractionDuration  prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recipe_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ExtractionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_extractions_total",
			Help: "Extraction attempts by outcome.",
		}, []string{"outcome"}), // success, invalid_request, fetch_error, parse_error, extraction_failure
		ExtractionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recipe_extraction_duration_seconds",
			Help:    "Time spent fetching and normalizing one page.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ExtractionsTotal,
		m.ExtractionDuration,
	)
	return m
}

func (m *Metrics) IncExtraction(outcome string) {
	m.ExtractionsTotal.WithLabelValues(outcome).Inc()
}
