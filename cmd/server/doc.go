// Package main is the entry point of the ide-browser host.
//
// The host runs a browser tool window per workspace and exposes it to other
// local processes through the shared loopback server:
//
//	GET http://localhost:<port>/api/ide-browser/open?url=<percent-encoded url>
//
// Processes started from a launch profile find the endpoint in the
// IDE_BROWSER_ENDPOINT environment variable.
//
// The server provides:
//   - The ide-browser prefix handler (open)
//   - Health and Prometheus metrics routes
//   - A WebSocket stream of the browser state (/ws/browser)
//   - Launch profiles with a before-run browser step
//   - An optional terminal tool window (-tui)
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Default port, open the default workspace
//	./server
//
//	# Ephemeral port, run a profile, show the terminal tool window
//	./server -port 0 -profiles run.yaml -launch dev -tui
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
