// Package observability wires OpenTelemetry tracing and metrics for the
// transcript resolver.
//
// Tracing:
//
//	providers, err := observability.Setup(ctx, cfg.Observability, "ytranscript", version.Version, env)
//	defer providers.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanResolve)
//	defer span.End()
//
// Metrics:
//
//	metrics := observability.MustNewMetrics()
//	metrics.RecordResolveEnd(ctx, "youtube_auto_caption", "ok", duration)
//	metrics.Snapshot() // in-process counters for /metrics
package observability
