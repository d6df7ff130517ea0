// Package metrics provides Prometheus metrics for the geofence attendance service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every collector of the service. A nil *Manager is valid and
// records nothing, so services can be built without metrics in tests.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	checkIns          *prometheus.CounterVec
	checkInRejections *prometheus.CounterVec
	checkInLatency    prometheus.Histogram
	zoneUpdates       *prometheus.CounterVec
	exports           prometheus.Counter
	exportedEvents    prometheus.Counter
	storageErrors     *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithHistogramBuckets sets latency histogram buckets (seconds).
func WithHistogramBuckets(b []float64) Option {
	return func(m *Manager) {
		if len(b) > 0 {
			m.histogramBuckets = b
		}
	}
}

// WithPrometheusRegistry registers collectors on reg instead of a fresh registry.
func WithPrometheusRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}

// NewManager creates a Manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "geofence",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.init()
	return m
}

func (m *Manager) init() {
	auto := promauto.With(m.registry)

	m.checkIns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "attendance",
		Name:      "checkins_total",
		Help:      "Recorded check-ins by status.",
	}, []string{"status"})

	m.checkInRejections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "attendance",
		Name:      "checkin_rejections_total",
		Help:      "Check-ins rejected before recording, by error code.",
	}, []string{"code"})

	m.checkInLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "attendance",
		Name:      "checkin_duration_seconds",
		Help:      "Time to evaluate and record a check-in.",
		Buckets:   m.histogramBuckets,
	})

	m.zoneUpdates = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "zone",
		Name:      "updates_total",
		Help:      "Zone update attempts by result.",
	}, []string{"result"})

	m.exports = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "attendance",
		Name:      "exports_total",
		Help:      "Committed export-and-clear operations.",
	})

	m.exportedEvents = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "attendance",
		Name:      "exported_events_total",
		Help:      "Events removed by export-and-clear.",
	})

	m.storageErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "storage_errors_total",
		Help:      "Store failures surfaced to callers, by component.",
	}, []string{"component"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route"})
}

func (m *Manager) CheckIn(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.checkIns.WithLabelValues(status).Inc()
	m.checkInLatency.Observe(d.Seconds())
}

func (m *Manager) CheckInRejected(code string) {
	if m == nil {
		return
	}
	m.checkInRejections.WithLabelValues(code).Inc()
}

func (m *Manager) ZoneUpdate(result string) {
	if m == nil {
		return
	}
	m.zoneUpdates.WithLabelValues(result).Inc()
}

func (m *Manager) Exported(rows int) {
	if m == nil {
		return
	}
	m.exports.Inc()
	m.exportedEvents.Add(float64(rows))
}

func (m *Manager) StorageError(component string) {
	if m == nil {
		return
	}
	m.storageErrors.WithLabelValues(component).Inc()
}

// Registry exposes the underlying registry (tests, extra collectors).
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the exposition format for this manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request count and latency per matched route.
func (m *Manager) GinMiddleware() gin.HandlerFunc {
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
		method := c.Request.Method
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
