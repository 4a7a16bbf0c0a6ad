/*
Package monitoring provides Prometheus-based metrics for the bridge.

# Overview

Every bridged request is counted by terminal outcome (completed, failed,
canceled) and timed from dispatch to terminal signal. Body draining and
unparseable redirect targets are tracked separately.

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Record a settled request
	metrics.RecordOutcome(monitoring.OutcomeCompleted, elapsed)

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
