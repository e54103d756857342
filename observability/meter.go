package observability

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/ytranscript/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the resolver's instruments. Counters are mirrored in memory
// so the /metrics endpoint can report them without a collector.
type Metrics struct {
	resolveTotal    metric.Int64Counter
	resolveDuration metric.Float64Histogram
	resolveActive   metric.Int64UpDownCounter
	stageTotal      metric.Int64Counter
	errorTotal      metric.Int64Counter

	active atomic.Int64

	mu       sync.Mutex
	counters map[string]int64
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	resolveTotal, err := meter.Int64Counter("transcript.resolve.total",
		metric.WithDescription("Resolved requests by source and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcript.resolve.total counter: %w", err)
	}

	resolveDuration, err := meter.Float64Histogram("transcript.resolve.duration",
		metric.WithDescription("Duration of transcript resolution in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcript.resolve.duration histogram: %w", err)
	}

	resolveActive, err := meter.Int64UpDownCounter("transcript.resolve.active",
		metric.WithDescription("Number of resolutions in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcript.resolve.active gauge: %w", err)
	}

	stageTotal, err := meter.Int64Counter("transcript.stage.total",
		metric.WithDescription("Fallback chain stage outcomes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcript.stage.total counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("transcript.error.total",
		metric.WithDescription("Errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcript.error.total counter: %w", err)
	}

	return &Metrics{
		resolveTotal:    resolveTotal,
		resolveDuration: resolveDuration,
		resolveActive:   resolveActive,
		stageTotal:      stageTotal,
		errorTotal:      errorTotal,
		counters:        make(map[string]int64),
	}, nil
}

// MustNewMetrics is NewMetrics on the global meter; instrument creation on
// the SDK and no-op meters only fails on invalid names.
func MustNewMetrics() *Metrics {
	m, err := NewMetrics(Meter(defaultTracerName))
	if err != nil {
		panic(err)
	}
	return m
}

// RecordResolveStart increments the in-flight count.
func (m *Metrics) RecordResolveStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.active.Add(1)
	m.resolveActive.Add(ctx, 1)
}

// InFlight returns the number of extractions currently running.
func (m *Metrics) InFlight() int64 {
	if m == nil {
		return 0
	}
	return m.active.Load()
}

// RecordResolveEnd decrements the in-flight count and records the outcome.
// source is empty when no transcript was produced.
func (m *Metrics) RecordResolveEnd(ctx context.Context, source, status string, duration time.Duration) {
	if m == nil {
		return
	}
	if source == "" {
		source = "none"
	}
	m.active.Add(-1)
	m.resolveActive.Add(ctx, -1)
	m.resolveTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status),
	))
	m.resolveDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("source", source),
	))
	m.bump("resolve." + status + "." + source)
}

// RecordStage records the outcome of one step of the fallback chain, e.g.
// stage "manual_caption" outcome "absent".
func (m *Metrics) RecordStage(ctx context.Context, stage, outcome string) {
	if m == nil {
		return
	}
	m.stageTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("outcome", outcome),
	))
	m.bump("stage." + stage + "." + outcome)
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
	m.bump("error." + code)
}

// Snapshot returns a copy of the in-process counters.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out
}

// SnapshotKeys returns the counter names in sorted order.
func (m *Metrics) SnapshotKeys() []string {
	snap := m.Snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *Metrics) bump(key string) {
	m.mu.Lock()
	m.counters[key]++
	m.mu.Unlock()
}
