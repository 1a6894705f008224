// Package observability provides logging, metrics, and tracing for the
// navigation dispatcher.
//
// # Logging
//
// The Logger interface provides structured logging backed by zap:
//
//	logger, err := observability.NewLogger(observability.LogConfig{Level: "debug", Format: "console"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("navigation finished",
//	    observability.String("to", "products"),
//	    observability.String("outcome", "allow"),
//	)
//
// # Metrics
//
// Prometheus metrics for navigations, lifecycle callbacks and lazy module
// loading are held in a private registry:
//
//	metrics := observability.NewMetrics("routable")
//	http.Handle("/metrics", metrics.Handler())
//
// # Tracing
//
// OpenTelemetry tracing with optional OTLP gRPC export. Each navigation
// is a span with one child span per callback:
//
//	tracer, err := observability.NewTracer(observability.TracerConfig{Enabled: true, ServiceName: "routable"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(ctx)
package observability
