// Package metrics holds the prometheus instruments of the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics owns a private registry so several servers (and tests) can coexist
// in one process.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	CalculationsTotal  *prometheus.CounterVec
	ExtractionsTotal   *prometheus.CounterVec
	ExtractionDuration *prometheus.HistogramVec
	PensionAmount      prometheus.Histogram
}

// New registers every instrument, plus the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grpension_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "grpension_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		CalculationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grpension_calculations_total",
				Help: "Pension calculations by outcome",
			},
			[]string{"outcome"},
		),
		ExtractionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grpension_extractions_total",
				Help: "Document extractions by suffix and outcome",
			},
			[]string{"format", "outcome"},
		),
		ExtractionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "grpension_extraction_duration_seconds",
				Help:    "Time spent extracting facts from a document",
				Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 15, 60},
			},
			[]string{"format"},
		),
		PensionAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "grpension_total_pension_euros",
			Help:    "Distribution of computed monthly totals",
			Buckets: prometheus.LinearBuckets(250, 250, 12),
		}),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(route, statusLabel(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveExtraction records one document run; outcome is "ok", "unavailable"
// or "unsupported".
func (m *Metrics) ObserveExtraction(format, outcome string, elapsed time.Duration) {
	m.ExtractionsTotal.WithLabelValues(format, outcome).Inc()
	m.ExtractionDuration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// ObserveCalculation records an engine run and, on success, its total.
func (m *Metrics) ObserveCalculation(total float64, err error) {
	if err != nil {
		m.CalculationsTotal.WithLabelValues("error").Inc()
		return
	}
	m.CalculationsTotal.WithLabelValues("ok").Inc()
	m.PensionAmount.Observe(total)
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
