package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "medinav"

// Metrics holds the service's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Predictions     *prometheus.CounterVec
	RerouteDecision *prometheus.CounterVec
	PathSearches    *prometheus.CounterVec
	MetricRefreshes *prometheus.CounterVec
	SnapshotErrors  prometheus.Counter
	StreamClients   prometheus.Gauge
}

// NewMetrics creates and registers all collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "prediction",
				Name:      "total",
				Help:      "Next-step predictions by method",
			},
			[]string{"method"},
		),

		RerouteDecision: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "crowd",
				Name:      "reroute_decisions_total",
				Help:      "Reroute decisions by severity and outcome",
			},
			[]string{"severity", "rerouted"},
		),

		PathSearches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "navigation",
				Name:      "path_searches_total",
				Help:      "Path searches by result",
			},
			[]string{"result"},
		),

		MetricRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "crowd",
				Name:      "metric_refreshes_total",
				Help:      "Department metric refresh runs by status",
			},
			[]string{"status"},
		),

		SnapshotErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "crowd",
				Name:      "snapshot_errors_total",
				Help:      "Snapshot provider failures",
			},
		),

		StreamClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "crowd",
				Name:      "stream_clients",
				Help:      "Connected crowd event stream clients",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.Predictions,
		m.RerouteDecision,
		m.PathSearches,
		m.MetricRefreshes,
		m.SnapshotErrors,
		m.StreamClients,
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latencies per matched route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveReroute counts a reroute decision
func (m *Metrics) ObserveReroute(severity string, rerouted bool) {
	if m == nil {
		return
	}
	m.RerouteDecision.WithLabelValues(severity, strconv.FormatBool(rerouted)).Inc()
}

// ObservePrediction counts a prediction by method
func (m *Metrics) ObservePrediction(method string) {
	if m == nil {
		return
	}
	m.Predictions.WithLabelValues(method).Inc()
}

// ObservePathSearch counts a path search by result
func (m *Metrics) ObservePathSearch(result string) {
	if m == nil {
		return
	}
	m.PathSearches.WithLabelValues(result).Inc()
}

// ObserveRefresh counts a metric refresh run
func (m *Metrics) ObserveRefresh(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.MetricRefreshes.WithLabelValues(status).Inc()
}

// ObserveSnapshotError counts a failed snapshot read
func (m *Metrics) ObserveSnapshotError() {
	if m == nil {
		return
	}
	m.SnapshotErrors.Inc()
}
