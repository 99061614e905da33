package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Navigation request outcomes
const (
	OutcomeScheduled      = "scheduled"
	OutcomeInvalid        = "invalid"
	OutcomeUnavailable    = "unavailable"
	OutcomeScheduleFailed = "schedule_failed"
)

// Metrics holds all Prometheus metrics of one host process
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Navigation metrics
	NavigationRequests *prometheus.CounterVec

	// UI loop metrics
	UITasks      *prometheus.CounterVec
	UIQueueDepth prometheus.Gauge

	// Launch metrics
	Launches *prometheus.CounterVec

	startTime time.Time

	// Snapshot for tests and the health endpoint
	snapshot MetricsSnapshot
	mu       sync.RWMutex
}

// MetricsSnapshot holds current counter values
type MetricsSnapshot struct {
	TotalRequests int64
	TotalErrors   int64
	Scheduled     int64
	Rejected      int64
}

// NewMetrics creates a metrics collector backed by its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idebrowser_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "idebrowser_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),

		NavigationRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idebrowser_navigation_requests_total",
				Help: "Navigation requests by outcome",
			},
			[]string{"outcome"},
		),

		UITasks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idebrowser_ui_tasks_total",
				Help: "Tasks executed on the UI loop",
			},
			[]string{"status"},
		),
		UIQueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "idebrowser_ui_queue_depth",
				Help: "Tasks waiting in the UI loop queue",
			},
		),

		Launches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idebrowser_launches_total",
				Help: "Child processes launched with the endpoint published",
			},
			[]string{"status"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "idebrowser_uptime_seconds",
			Help: "Host uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the underlying Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus exposition handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordNavigation records the outcome of a navigation request
func (m *Metrics) RecordNavigation(outcome string) {
	m.NavigationRequests.WithLabelValues(outcome).Inc()

	m.mu.Lock()
	if outcome == OutcomeScheduled {
		m.snapshot.Scheduled++
	} else {
		m.snapshot.Rejected++
	}
	m.mu.Unlock()
}

// RecordUITask records a task run by the UI loop
func (m *Metrics) RecordUITask(status string) {
	m.UITasks.WithLabelValues(status).Inc()
}

// SetUIQueueDepth sets the number of queued UI tasks
func (m *Metrics) SetUIQueueDepth(depth int) {
	m.UIQueueDepth.Set(float64(depth))
}

// RecordLaunch records a child process launch
func (m *Metrics) RecordLaunch(status string) {
	m.Launches.WithLabelValues(status).Inc()
}

// Snapshot returns a copy of the current counter values
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
