// Package app wires the KPI dashboard server together and runs it.
//
// NewApplication loads the configuration, initializes logging and
// OpenTelemetry, creates the KPI and health services and builds the chi
// router. NewWithConfig does the same from a configuration the caller
// already holds, which is what tests use.
//
// # Middleware Order
//
//	RequestID → RealIP → OTel → StructuredLogger → Recovery → SecurityHeaders → CORS → RateLimiter
//
// Health routes run under the read timeout. The /api/kpi routes, which
// parse uploads and render charts, run under the operation timeout.
// /metrics is served by the Prometheus exporter when metrics are enabled.
//
// # Lifecycle
//
// Run starts the server and blocks until SIGINT or SIGTERM, or until the
// listener fails, then shuts down the server and flushes telemetry. Errors
// are returned to the caller; the package never calls os.Exit.
package app
