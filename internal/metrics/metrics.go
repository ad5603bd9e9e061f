// Package metrics provides Prometheus metrics collection for the gateway services.
//
// This package includes:
// - HTTP request metrics (count, latency, errors)
// - Transfer plan and execution metrics per chain
// - Gateway API call metrics and circuit breaker state
// - Metrics HTTP server on configurable port
//
// Usage:
//
//	metricsServer := metrics.StartMetricsServer(cfg.Metrics, []string{metrics.ServiceHTTP, metrics.ServiceTransfer}, logger)
//	defer metricsServer.Stop(context.Background())
//
//	e.Use(metrics.HTTPMiddleware())
package metrics
