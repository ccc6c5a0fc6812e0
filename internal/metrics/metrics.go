package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg *prometheus.Registry

	inFlight        prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authAttempts    *prometheus.CounterVec
	adminDecisions  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_auth_attempts_total",
			Help: "Sign-in attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		adminDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_admin_decisions_total",
			Help: "Handled admin access requests by action.",
		}, []string{"action"}),
	}

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.inFlight, m.requestsTotal, m.requestDuration, m.authAttempts, m.adminDecisions,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Middleware labels by route template so ids do not explode cardinality.
// It must run outside the request logger, which writes error responses.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.inFlight.Inc()
			defer m.inFlight.Dec()

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			labels := []string{c.Request().Method, path, strconv.Itoa(status)}
			m.requestsTotal.WithLabelValues(labels...).Inc()
			m.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *Metrics) AuthAttempt(method, outcome string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) AdminDecision(action string) {
	if m == nil {
		return
	}
	m.adminDecisions.WithLabelValues(action).Inc()
}
