// Package config provides 12-factor configuration management for the ide-browser host.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags in cmd/server override environment variables.
//
// Configuration Sections:
//   - Server: shared embedded HTTP server (loopback host, port)
//   - Browser: home URL, zoom step, page fetching
//   - UI: UI loop queue size, terminal tool window
//   - Workspace: workspace opened at startup
//   - Launch: launch profiles file and the profile to run
//   - Logging: level, format, output file
//   - RateLimit: per-IP or global rate limiting
//   - CORS: origins allowed to call the endpoints from a page
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Listening on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - BROWSER_HOME_URL, BROWSER_ZOOM_STEP, BROWSER_FETCH_ENABLED, BROWSER_FETCH_TIMEOUT
//   - UI_QUEUE_SIZE, UI_TUI
//   - WORKSPACE_NAME, WORKSPACE_DIR, WORKSPACE_AUTO_OPEN
//   - LAUNCH_PROFILES, LAUNCH_PROFILE
//   - LOG_LEVEL, LOG_DEV, LOG_FILE
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED, RATE_LIMIT_GLOBAL
//   - CORS_ALLOW_ORIGINS
package config
