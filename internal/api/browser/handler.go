// Package browser mounts the ide-browser control endpoint on the shared server.
//
//	GET /api/ide-browser/open?url=<percent-encoded url>
//
// 200 once navigation is scheduled, 400 for a missing or blank url, 503 when no
// workspace is open, 404 for any other path or method under the prefix.
// Requests outside the prefix are left to other handlers.
package browser

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/navigation"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/endpoint"
)

// Navigator schedules navigation of the browser surface
type Navigator interface {
	Open(ctx context.Context, rawURL string) (navigation.Result, error)
}

// Handler is the prefix handler of the ide-browser service
type Handler struct {
	prefix string
	nav    Navigator
}

// NewHandler creates the handler for endpoint.Prefix
func NewHandler(nav Navigator) *Handler {
	return &Handler{prefix: endpoint.Prefix, nav: nav}
}

// IsSupported reports whether the path is the prefix itself or below it
func (h *Handler) IsSupported(r *http.Request) bool {
	path := r.URL.Path
	return path == h.prefix || strings.HasPrefix(path, h.prefix+"/")
}

// Process serves every request under the prefix
func (h *Handler) Process(c *gin.Context) bool {
	sub := strings.TrimPrefix(c.Request.URL.Path, h.prefix)
	if c.Request.Method == http.MethodGet && (sub == endpoint.OpenPath || sub == endpoint.OpenPath+"/") {
		h.Open(c)
		return true
	}

	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error":   "not found",
	})
	return true
}

// Open handles GET <prefix>/open
func (h *Handler) Open(c *gin.Context) {
	result, err := h.nav.Open(c.Request.Context(), c.Query("url"))
	if err != nil {
		c.JSON(navigation.StatusCode(err), gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"url":       result.URL,
		"scheduled": result.Scheduled,
		"requestId": result.RequestID,
	})
}
