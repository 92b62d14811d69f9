package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hopeconnect"

// Submission outcomes recorded by FormMetrics
const (
	outcomeSubmitted      = "submitted"
	outcomeTermsNotAgreed = "terms_not_agreed"
	outcomeRejected       = "rejected"
	outcomeFailed         = "failed"
)

// HTTPMetrics holds Prometheus metrics for HTTP request tracking.
type HTTPMetrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	InFlightGauge   prometheus.Gauge
}

// NewHTTPMetrics creates and registers HTTP metrics on the given registry.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status_code"}),
		InFlightGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of HTTP requests currently being processed.",
		}),
	}

	reg.MustRegister(m.RequestDuration, m.RequestsTotal, m.InFlightGauge)
	return m
}

// Middleware returns an Echo middleware that records HTTP metrics.
// It skips /metrics, /health/* and static assets.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "/metrics" || strings.HasPrefix(path, "/health/") || strings.HasPrefix(path, "/static") {
				return next(c)
			}

			m.InFlightGauge.Inc()
			defer m.InFlightGauge.Dec()

			var status string
			timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
				m.RequestDuration.WithLabelValues(c.Request().Method, path, status).Observe(v)
				m.RequestsTotal.WithLabelValues(c.Request().Method, path, status).Inc()
			}))

			err := next(c)
			status = strconv.Itoa(responseStatus(c, err))
			timer.ObserveDuration()
			return err
		}
	}
}

// responseStatus is the status the client will see. A returned error has not
// been through the HTTP error handler yet, so its code comes from the error.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

// FormMetrics tracks volunteer form activity.
type FormMetrics struct {
	Submissions  *prometheus.CounterVec
	FieldUpdates prometheus.Counter
	Toggles      prometheus.Counter
}

// NewFormMetrics registers the form metrics plus a gauge reporting the number of live visits.
func NewFormMetrics(reg prometheus.Registerer, activeVisits func() float64) *FormMetrics {
	m := &FormMetrics{
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "volunteer_form",
			Name:      "submissions_total",
			Help:      "Volunteer application submit attempts by outcome.",
		}, []string{"outcome"}),
		FieldUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "volunteer_form",
			Name:      "field_updates_total",
			Help:      "Individual field updates received from the volunteer form.",
		}),
		Toggles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "volunteer_form",
			Name:      "interest_toggles_total",
			Help:      "Interest checkbox toggles received from the volunteer form.",
		}),
	}

	activeGauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "volunteer_form",
		Name:      "active_visits",
		Help:      "Volunteer page visits currently holding a draft.",
	}, activeVisits)

	reg.MustRegister(m.Submissions, m.FieldUpdates, m.Toggles, activeGauge)
	return m
}
