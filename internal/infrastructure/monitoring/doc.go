/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the host
process, tracking HTTP requests on the shared server, navigation request
outcomes, the UI loop and child process launches.

# Features

- HTTP request metrics (latency, status)
- Navigation outcomes (scheduled, invalid, unavailable, schedule_failed)
- UI loop task counts and queue depth
- Launch counts
- Go runtime, process and uptime metrics

Every Metrics value owns a private registry, so several hosts (or tests) can
coexist in one process.

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics, endpoint.Prefix))

	// Record domain metrics
	metrics.RecordNavigation(monitoring.OutcomeScheduled)
	metrics.SetUIQueueDepth(3)

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
