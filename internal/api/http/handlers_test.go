package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/surface"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/monitoring"
)

type fixedPort int

func (p fixedPort) Port() int { return int(p) }

type fixedWorkspaces map[string][]string

func (f fixedWorkspaces) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	return names
}

func (f fixedWorkspaces) ToolWindowIDs(name string) ([]string, bool) {
	ids, ok := f[name]
	return ids, ok
}

func setupRouter(hub *surface.Hub, metrics *monitoring.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandlers(fixedPort(4242), fixedWorkspaces{"sample": {"Browser"}}, hub, metrics).Register(router)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRoot(t *testing.T) {
	router := setupRouter(surface.NewHub(), monitoring.NewMetrics())

	w := get(router, "/")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ide-browser", body["service"])
	assert.Equal(t, "http://localhost:4242/api/ide-browser", body["endpoint"])
}

func TestHealth(t *testing.T) {
	hub := surface.NewHub()
	router := setupRouter(hub, monitoring.NewMetrics())

	var body struct {
		Status      string              `json:"status"`
		Port        int                 `json:"port"`
		Workspaces  int                 `json:"workspaces"`
		ToolWindows map[string][]string `json:"toolWindows"`
		Browser     struct {
			Materialized bool   `json:"materialized"`
			URL          string `json:"url"`
		} `json:"browser"`
	}

	w := get(router, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, 4242, body.Port)
	assert.Equal(t, 1, body.Workspaces)
	assert.Equal(t, map[string][]string{"sample": {"Browser"}}, body.ToolWindows)
	assert.False(t, body.Browser.Materialized)

	hub.Publish(surface.State{URL: "https://example.com"})
	w = get(router, "/health")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Browser.Materialized)
	assert.Equal(t, "https://example.com", body.Browser.URL)
}

func TestMetricsEndpoints(t *testing.T) {
	metrics := monitoring.NewMetrics()
	metrics.RecordHTTPRequest("GET", "/api/ide-browser/open", "200", time.Millisecond)
	metrics.RecordHTTPRequest("GET", "/api/ide-browser/open", "400", time.Millisecond)
	metrics.RecordNavigation(monitoring.OutcomeScheduled)

	router := setupRouter(surface.NewHub(), metrics)

	w := get(router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "idebrowser_navigation_requests_total")

	w = get(router, "/metrics/json")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Summary MetricsSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Summary.TotalRequests)
	assert.InDelta(t, 0.5, body.Summary.ErrorRate, 1e-9)
	assert.Equal(t, int64(1), body.Summary.NavigationScheduled)
}
