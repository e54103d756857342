package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/ytranscript/api"
	"github.com/kbukum/ytranscript/auth"
	"github.com/kbukum/ytranscript/bootstrap"
	"github.com/kbukum/ytranscript/logger"
	"github.com/kbukum/ytranscript/observability"
	"github.com/kbukum/ytranscript/server"
	"github.com/kbukum/ytranscript/server/middleware"
	"github.com/kbukum/ytranscript/toolcheck"
	"github.com/kbukum/ytranscript/transcript"
	"github.com/kbukum/ytranscript/transcription"
	"github.com/kbukum/ytranscript/transcription/localwhisper"
	"github.com/kbukum/ytranscript/transcription/whisper"
	"github.com/kbukum/ytranscript/version"
	"github.com/kbukum/ytranscript/ytdlp"
)

// Mode selects which components Build registers.
type Mode int

const (
	// ModeServe runs the HTTP API.
	ModeServe Mode = iota
	// ModeTask resolves from the command line without a listener.
	ModeTask
)

// Application is a wired service.
type Application struct {
	*bootstrap.App[*Config]

	Resolver *transcript.Resolver
	Metrics  *observability.Metrics
	// Server is nil in ModeTask.
	Server *server.Server
}

// Build wires the resolver and registers the components for mode. The
// config is defaulted and validated by bootstrap.NewApp.
func Build(cfg *Config, mode Mode, opts ...bootstrap.Option) (*Application, error) {
	if cfg.Version == "" {
		cfg.Version = version.Short()
	}
	base, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	a := &Application{App: base, Metrics: observability.MustNewMetrics()}
	log := a.Logger

	var speech transcription.Provider
	if cfg.Resolver.FallbackEnabled {
		if speech, err = NewSpeechProvider(cfg.Speech); err != nil {
			return nil, fmt.Errorf("speech backend: %w", err)
		}
	}

	downloader := ytdlp.New(cfg.Downloader, nil, log)
	a.Resolver, err = transcript.NewResolver(cfg.Resolver, downloader, speech,
		transcript.WithLogger(log),
		transcript.WithMetrics(a.Metrics),
	)
	if err != nil {
		return nil, err
	}

	log.Info("build", version.Get().Fields())
	log.Info("resolver configured", DescribeConfig(cfg))
	if cfg.Downloader.Timeout == 0 {
		log.Warn("downloader.timeout is 0: a hung yt-dlp call blocks its request until the client disconnects")
		a.Summary.AddNote("downloader.timeout is 0 (no per-call timeout)")
	}

	if dir := cfg.Resolver.TempDir; dir != "" {
		a.OnStart(func(context.Context) error {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return fmt.Errorf("resolver.temp_dir: %w", err)
			}
			return nil
		})
	}

	if err := a.RegisterComponent(newTelemetryComponent(cfg, log)); err != nil {
		return nil, err
	}

	checker := toolcheck.NewChecker(nil)
	for _, req := range Requirements(cfg) {
		if err := a.RegisterComponent(toolcheck.NewComponent(req, checker, log)); err != nil {
			return nil, err
		}
	}
	if speech != nil && speech.Name() == whisper.ProviderName {
		sc := &speechComponent{provider: speech, target: cfg.Speech.URL}
		if sc.target == "" {
			sc.target = "default sidecar"
		}
		if err := a.RegisterComponent(sc); err != nil {
			return nil, err
		}
	}

	if mode == ModeServe {
		if err := a.buildServer(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Application) buildServer() error {
	cfg := a.Cfg
	srv := server.New(cfg.Server, a.Logger)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(cfg.Name, a.Components.HealthAll, a.Metrics)

	var guards []gin.HandlerFunc
	if cfg.Auth.Enabled {
		verifier, err := auth.NewVerifier(cfg.Auth)
		if err != nil {
			return err
		}
		guards = append(guards, middleware.GinWrap(middleware.Auth(middleware.AuthConfig{
			TokenValidator: verifier.ValidatorFunc(),
			Log:            a.Logger,
		})))
		a.Summary.AddNote("bearer auth required on " + api.ExtractPath)
	}
	api.NewHandler(a.Resolver, a.Logger).Register(srv.GinEngine(), guards...)

	a.OnReady(func(context.Context) error {
		a.Logger.Info("accepting requests", logger.Fields("addr", srv.Addr(), "path", api.ExtractPath))
		return nil
	})

	a.Server = srv
	return a.RegisterComponent(server.NewComponent(srv))
}

// Requirements lists the external tools the configuration depends on.
// Tools only the speech fallback needs are optional while it is disabled.
func Requirements(cfg *Config) []toolcheck.Requirement {
	fallback := cfg.Resolver.FallbackEnabled
	reqs := []toolcheck.Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.Downloader.Binary,
			Description: "caption listing, subtitle and audio download",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "ffmpeg",
			Command:     "ffmpeg",
			Description: "audio extraction for the speech fallback",
			Optional:    !fallback,
			VersionArgs: []string{"-version"},
		},
	}
	if cfg.Speech.Backend == localwhisper.ProviderName {
		reqs = append(reqs, toolcheck.Requirement{
			Name:        "whisper",
			Command:     cfg.Speech.Binary,
			Description: "local speech recognition (" + cfg.Speech.Model + " model)",
			Optional:    !fallback,
		})
	}
	return reqs
}

// DescribeConfig returns the effective resolver settings as log fields.
func DescribeConfig(cfg *Config) map[string]interface{} {
	return logger.Fields(
		logger.FieldLanguage, cfg.Resolver.Language,
		"fallback_enabled", cfg.Resolver.FallbackEnabled,
		"strict_tool_errors", cfg.Resolver.StrictToolErrors,
		"speech_backend", cfg.Speech.Backend,
		"speech_model", cfg.Speech.Model,
		"probe", cfg.Downloader.Probe,
	)
}
