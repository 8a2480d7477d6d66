package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMetrics owns a private registry with HTTP, auth and content collectors
type ServerMetrics struct {
	reg       *prometheus.Registry
	handler   http.Handler
	inflight  prometheus.Gauge
	reqTotal  *prometheus.CounterVec
	reqDur    *prometheus.HistogramVec
	buildInfo *prometheus.GaugeVec

	ratelimitDeniedTotal prometheus.Counter
	loginsTotal          *prometheus.CounterVec
	contentUpdatesTotal  *prometheus.CounterVec
	sessionsPurgedTotal  prometheus.Counter
	errorsTotal          *prometheus.CounterVec
}

// New returns a fresh registry + standard collectors + HTTP metrics.
// Labels are limited to method, route template and status to keep cardinality bounded.
func New() *ServerMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &ServerMetrics{
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests",
		}),
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		}, []string{"method", "route", "status"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build metadata (value is always 1)",
		}, []string{"version"}),
		ratelimitDeniedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_requests_rate_limited_total",
			Help: "Total requests rejected by rate limiter",
		}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_logins_total",
			Help: "Admin login attempts by result",
		}, []string{"result"}),
		contentUpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_updates_total",
			Help: "Successful section upserts by section",
		}, []string{"section"}),
		sessionsPurgedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessions_purged_total",
			Help: "Expired sessions removed by the janitor",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total 5xx HTTP server errors by method and route",
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.inflight,
		m.reqTotal,
		m.reqDur,
		m.buildInfo,
		m.ratelimitDeniedTotal,
		m.loginsTotal,
		m.contentUpdatesTotal,
		m.sessionsPurgedTotal,
		m.errorsTotal,
	)

	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	m.reg = reg
	return m
}

func (m *ServerMetrics) Handler() http.Handler {
	return m.handler
}

// Registry exposes the underlying registry, mostly for tests
func (m *ServerMetrics) Registry() *prometheus.Registry {
	return m.reg
}

// set once at startup.
func (m *ServerMetrics) SetBuildInfo(version string) {
	m.buildInfo.WithLabelValues(version).Set(1)
}

func (m *ServerMetrics) IncRateLimitDenied() {
	m.ratelimitDeniedTotal.Inc()
}

func (m *ServerMetrics) IncLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.loginsTotal.WithLabelValues(result).Inc()
}

func (m *ServerMetrics) IncContentUpdate(section string) {
	m.contentUpdatesTotal.WithLabelValues(section).Inc()
}

func (m *ServerMetrics) AddSessionsPurged(n int64) {
	m.sessionsPurgedTotal.Add(float64(n))
}
