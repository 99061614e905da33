// Package http provides the ordinary routes of the shared server: service
// info, health and metrics.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/surface"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/endpoint"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/monitoring"
)

// Version is reported by Root
const Version = "0.3.0"

// WorkspaceLister lists open workspaces and their tool windows
type WorkspaceLister interface {
	Names() []string
	ToolWindowIDs(name string) ([]string, bool)
}

// Handlers contains the HTTP handlers
type Handlers struct {
	ports      endpoint.PortSource
	workspaces WorkspaceLister
	hub        *surface.Hub
	metrics    *monitoring.Metrics
	started    time.Time
}

// NewHandlers creates the handlers
func NewHandlers(ports endpoint.PortSource, workspaces WorkspaceLister, hub *surface.Hub, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		ports:      ports,
		workspaces: workspaces,
		hub:        hub,
		metrics:    metrics,
		started:    time.Now(),
	}
}

// Register mounts the handlers on router
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	router.GET("/metrics/json", h.MetricsJSON)
}

// Root handles the root endpoint
func (h *Handlers) Root(c *gin.Context) {
	base, _ := endpoint.BaseURL(h.ports)
	c.JSON(http.StatusOK, gin.H{
		"status":   "online",
		"service":  endpoint.ServiceName,
		"version":  Version,
		"endpoint": base,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	browser := gin.H{"materialized": false}
	if st, ok := h.hub.Last(); ok {
		browser = gin.H{
			"materialized": true,
			"url":          st.URL,
		}
	}

	names := h.workspaces.Names()
	windows := make(map[string][]string, len(names))
	for _, name := range names {
		if ids, ok := h.workspaces.ToolWindowIDs(name); ok {
			windows[name] = ids
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"port":        h.ports.Port(),
		"workspaces":  len(names),
		"toolWindows": windows,
		"browser":     browser,
	})
}

// MetricsSummary provides high-level metrics
type MetricsSummary struct {
	TotalRequests       int64   `json:"total_requests"`
	ErrorRate           float64 `json:"error_rate"`
	NavigationScheduled int64   `json:"navigation_scheduled"`
	NavigationRejected  int64   `json:"navigation_rejected"`
	UptimeSeconds       float64 `json:"uptime_seconds"`
}

// MetricsJSON returns a JSON summary of the counters
func (h *Handlers) MetricsJSON(c *gin.Context) {
	snap := h.metrics.Snapshot()

	summary := MetricsSummary{
		TotalRequests:       snap.TotalRequests,
		NavigationScheduled: snap.Scheduled,
		NavigationRejected:  snap.Rejected,
		UptimeSeconds:       time.Since(h.started).Seconds(),
	}
	if snap.TotalRequests > 0 {
		summary.ErrorRate = float64(snap.TotalErrors) / float64(snap.TotalRequests)
	}

	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now(),
		"summary":   summary,
	})
}
