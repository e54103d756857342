package observability

import (
	"context"
	"errors"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Providers bundles the SDK providers started by Setup.
type Providers struct {
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

// Setup starts the OTLP tracer and meter when cfg.Enabled is set. When
// disabled it returns empty Providers and the global no-op providers stay
// in place.
func Setup(ctx context.Context, cfg Config, service, version, environment string) (*Providers, error) {
	p := &Providers{}
	if !cfg.Enabled {
		return p, nil
	}
	tp, err := InitTracer(ctx, cfg.TracerConfig(service, version, environment))
	if err != nil {
		return nil, err
	}
	p.tracer = tp
	mp, err := InitMeter(ctx, cfg.MeterConfig(service, version, environment))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	p.meter = mp
	return p, nil
}

// Enabled reports whether exporters are running.
func (p *Providers) Enabled() bool {
	return p != nil && p.tracer != nil
}

// Shutdown flushes and stops the providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var errs []error
	if p.meter != nil {
		errs = append(errs, p.meter.Shutdown(ctx))
	}
	if p.tracer != nil {
		errs = append(errs, p.tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
