package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/ytranscript/auth"
	"github.com/kbukum/ytranscript/bootstrap"
	"github.com/kbukum/ytranscript/logger"
)

func quietOpts() []bootstrap.Option {
	return []bootstrap.Option{bootstrap.WithLogger(logger.NewNop()), bootstrap.WithSummaryWriter(nil)}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Name != ServiceName {
		t.Errorf("expected name %q, got %q", ServiceName, cfg.Name)
	}
	if cfg.Resolver.Language != "en" || cfg.Resolver.FallbackEnabled || cfg.Resolver.StrictToolErrors {
		t.Errorf("unexpected resolver defaults %+v", cfg.Resolver)
	}
	if cfg.Speech.Backend != "local" || cfg.Speech.Model != "base" || cfg.Resolver.Model != "base" {
		t.Errorf("unexpected speech defaults %+v", cfg.Speech)
	}
	if cfg.Downloader.Binary != "yt-dlp" || cfg.Downloader.Probe != "text" || cfg.Downloader.Timeout != 0 {
		t.Errorf("unexpected downloader defaults %+v", cfg.Downloader)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad language", func(c *Config) { c.Resolver.Language = "not a tag" }, "resolver.language"},
		{"bad backend", func(c *Config) { c.Speech.Backend = "cloud" }, "speech.backend"},
		{"bad probe", func(c *Config) { c.Downloader.Probe = "xml" }, "downloader.probe"},
		{"short secret", func(c *Config) { c.Auth.Enabled = true; c.Auth.Secret = "short" }, "auth.secret"},
		{"bad sample rate", func(c *Config) { c.Observability.SampleRate = 2 }, "observability.sample_rate"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.ApplyDefaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
name: ytranscript
environment: production
resolver:
  language: de
speech:
  backend: http
  url: http://whisper:8387
downloader:
  probe: json
  timeout: 2m
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("YTRANSCRIPT_RESOLVER_FALLBACK_ENABLED", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Environment != "production" || cfg.Resolver.Language != "de" {
		t.Errorf("unexpected config %+v", cfg.ServiceConfig)
	}
	if !cfg.Resolver.FallbackEnabled {
		t.Error("expected env to enable the fallback")
	}
	if cfg.Speech.Backend != "http" || cfg.Speech.URL != "http://whisper:8387" {
		t.Errorf("unexpected speech section %+v", cfg.Speech)
	}
	if cfg.Downloader.Probe != "json" || cfg.Downloader.Timeout != 2*time.Minute {
		t.Errorf("unexpected downloader section %+v", cfg.Downloader)
	}
}

func TestRequirements(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	reqs := Requirements(cfg)
	if len(reqs) != 3 {
		t.Fatalf("expected yt-dlp, ffmpeg and whisper, got %d", len(reqs))
	}
	if reqs[0].Name != "yt-dlp" || reqs[0].Optional {
		t.Errorf("yt-dlp must be required: %+v", reqs[0])
	}
	for _, r := range reqs[1:] {
		if !r.Optional {
			t.Errorf("%s should be optional while the fallback is disabled", r.Name)
		}
	}

	cfg.Resolver.FallbackEnabled = true
	for _, r := range Requirements(cfg) {
		if r.Optional {
			t.Errorf("%s should be required with the fallback enabled", r.Name)
		}
	}

	cfg.Speech.Backend = "http"
	for _, r := range Requirements(cfg) {
		if r.Name == "whisper" {
			t.Error("the http backend needs no local whisper binary")
		}
	}
}

func componentNames(a *Application) []string {
	var names []string
	for _, c := range a.Components.All() {
		names = append(names, c.Name())
	}
	return names
}

func TestBuildServe(t *testing.T) {
	a, err := Build(&Config{}, ModeServe, quietOpts()...)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if a.Server == nil || a.Resolver == nil || a.Metrics == nil {
		t.Fatal("expected server, resolver and metrics to be wired")
	}
	got := strings.Join(componentNames(a), ",")
	want := "telemetry,yt-dlp,ffmpeg,whisper,http-server"
	if got != want {
		t.Errorf("components = %s, want %s", got, want)
	}

	rr := httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/live", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("expected /live 200, got %d", rr.Code)
	}
}

func TestBuildTaskHasNoServer(t *testing.T) {
	cfg := &Config{}
	cfg.Resolver.FallbackEnabled = true
	cfg.Speech.Backend = "http"
	a, err := Build(cfg, ModeTask, quietOpts()...)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if a.Server != nil {
		t.Error("task mode must not create a server")
	}
	if a.Components.Get("speech-http") == nil {
		t.Errorf("expected a speech health component, got %v", componentNames(a))
	}
}

func TestBuildWithAuth(t *testing.T) {
	secret := strings.Repeat("s", auth.MinSecretLength)
	cfg := &Config{}
	cfg.Auth = auth.Config{Enabled: true, Secret: secret}
	a, err := Build(cfg, ModeServe, quietOpts()...)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	body := `{"youtube_url":"https://youtu.be/x"}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract-transcript", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	a.Server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/live", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("operational endpoints stay open, got %d", rr.Code)
	}
}

func TestSpeechRegistry(t *testing.T) {
	reg := NewSpeechRegistry()
	if got := strings.Join(reg.List(), ","); got != "http,local" {
		t.Errorf("unexpected backends %s", got)
	}
	p, err := NewSpeechProvider(SpeechConfig{Backend: "http", URL: "http://localhost:1"})
	if err != nil || p.Name() != "http" {
		t.Fatalf("expected http provider, got %v %v", p, err)
	}
}

func TestRunTaskCreatesTempDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work", "nested")
	cfg := &Config{}
	cfg.Resolver.TempDir = dir
	cfg.Downloader.Binary = "definitely-not-installed-yt-dlp"

	a, err := Build(cfg, ModeTask, quietOpts()...)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	ran := false
	err = a.RunTask(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil || !ran {
		t.Fatalf("RunTask: ran=%v err=%v", ran, err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("expected temp dir to be created: %v", err)
	}
}
