// Package metrics exposes Prometheus instrumentation for the report and
// export pipelines and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors. A nil *Metrics records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	reports        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	exports        *prometheus.CounterVec
	storeErrors    *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reports_generated_total",
			Help: "Reports generated by format and outcome.",
		}, []string{"format", "outcome"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "report_render_duration_seconds",
			Help:    "Time spent fetching, reducing and rendering a report.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "data_exports_total",
			Help: "Raw data exports by data type, format and outcome.",
		}, []string{"data_type", "format", "outcome"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "store_read_errors_total",
			Help: "Document store reads that failed, by collection.",
		}, []string{"collection"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.reports,
		m.renderDuration,
		m.exports,
		m.storeErrors,
	)
	return m
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveReport records one report generation.
func (m *Metrics) ObserveReport(format string, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(format, outcome(err)).Inc()
	if err == nil {
		m.renderDuration.WithLabelValues(format).Observe(took.Seconds())
	}
}

// ObserveExport records one raw data export.
func (m *Metrics) ObserveExport(dataType, format string, err error) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(dataType, format, outcome(err)).Inc()
}

// StoreReadFailed counts a failed read of collection.
func (m *Metrics) StoreReadFailed(collection string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(collection).Inc()
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registered collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
