// Package logging wraps zap for the host process.
//
// Production builds write JSON lines to stdout. Development builds use the
// colored console encoder and keep stack traces. While the terminal tool
// window owns the screen, the host points OutputPaths at a file instead.
//
// Every component derives its own child with Named, and request scoped code
// adds the request id with With, so a navigation can be followed across the
// handler, the navigation service and the UI loop:
//
//	log := logger.Named("navigation").With(zap.String("request_id", rid.String()))
//	log.Debug("Navigation request", zap.String("stage", "scheduled"))
//
// Tests use NewNop, or zaptest/observer when they assert on log lines.
package logging
