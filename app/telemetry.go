package app

import (
	"context"
	"sync"

	"github.com/kbukum/ytranscript/component"
	"github.com/kbukum/ytranscript/logger"
	"github.com/kbukum/ytranscript/observability"
)

// telemetryComponent starts the OTLP exporters with the app and flushes
// them on shutdown.
type telemetryComponent struct {
	cfg         observability.Config
	service     string
	version     string
	environment string
	log         *logger.Logger

	mu        sync.Mutex
	providers *observability.Providers
}

func newTelemetryComponent(cfg *Config, log *logger.Logger) *telemetryComponent {
	return &telemetryComponent{
		cfg:         cfg.Observability,
		service:     cfg.Name,
		version:     cfg.Version,
		environment: cfg.Environment,
		log:         log.WithComponent("telemetry"),
	}
}

func (t *telemetryComponent) Name() string { return "telemetry" }

func (t *telemetryComponent) Start(ctx context.Context) error {
	p, err := observability.Setup(ctx, t.cfg, t.service, t.version, t.environment)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.providers = p
	t.mu.Unlock()
	if p.Enabled() {
		t.log.Info("OTLP export enabled", logger.Fields("endpoint", t.cfg.Endpoint, "sample_rate", t.cfg.SampleRate))
	}
	return nil
}

func (t *telemetryComponent) Stop(ctx context.Context) error {
	t.mu.Lock()
	p := t.providers
	t.providers = nil
	t.mu.Unlock()
	return p.Shutdown(ctx)
}

func (t *telemetryComponent) Health(context.Context) component.Health {
	return component.Health{Name: t.Name(), Status: component.StatusHealthy, Message: t.details()}
}

func (t *telemetryComponent) Describe() component.Description {
	return component.Description{Type: "telemetry", Details: t.details()}
}

func (t *telemetryComponent) details() string {
	if !t.cfg.Enabled {
		return "disabled"
	}
	return "otlp " + t.cfg.Endpoint
}
