package monitoring

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// UnmatchedPath labels requests no route or prefix handler claims
const UnmatchedPath = "unmatched"

// Middleware records request counts and latency per route. Requests served by
// a prefix handler run outside gin's routing and are labelled with their
// prefix; everything else without a route template shares UnmatchedPath, so
// arbitrary paths cannot grow the label set.
func Middleware(metrics *Metrics, prefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		metrics.RecordHTTPRequest(
			c.Request.Method,
			routeLabel(c.FullPath(), c.Request.URL.Path, prefixes),
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

func routeLabel(route, path string, prefixes []string) string {
	if route != "" {
		return route
	}
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return prefix + "/*"
		}
	}
	return UnmatchedPath
}
