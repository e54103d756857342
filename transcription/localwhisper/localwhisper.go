// Package localwhisper implements transcription.Provider by running the
// whisper command-line tool. Every call starts a fresh process, so the
// model is loaded per invocation.
package localwhisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kbukum/ytranscript/errors"
	"github.com/kbukum/ytranscript/logger"
	"github.com/kbukum/ytranscript/process"
	"github.com/kbukum/ytranscript/provider"
	"github.com/kbukum/ytranscript/transcription"
)

const (
	// ProviderName is the registered name for the CLI provider.
	ProviderName = "local"

	defaultBinary = "whisper"
	defaultModel  = "base"
)

// Config holds configuration for the CLI provider.
type Config struct {
	Binary  string        `json:"binary" yaml:"binary"`
	Model   string        `json:"model" yaml:"model"`
	Device  string        `json:"device,omitempty" yaml:"device"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Provider runs whisper as a subprocess and reads its JSON output.
type Provider struct {
	cfg    Config
	runner process.Runner
}

// NewProvider creates a CLI provider. A nil runner uses a process.Adapter.
func NewProvider(cfg Config, runner process.Runner, log *logger.Logger) *Provider {
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if runner == nil {
		runner = process.NewAdapter(process.Config{Name: "whisper", Timeout: cfg.Timeout}, log)
	}
	return &Provider{cfg: cfg, runner: runner}
}

// Factory creates CLI providers from a generic config map.
func Factory(cfg map[string]any) (transcription.Provider, error) {
	timeout, err := provider.Duration(cfg, "timeout", 0)
	if err != nil {
		return nil, err
	}
	return NewProvider(Config{
		Binary:  provider.String(cfg, "binary", ""),
		Model:   provider.String(cfg, "model", ""),
		Device:  provider.String(cfg, "device", ""),
		Timeout: timeout,
	}, nil, logger.GetGlobalLogger()), nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the whisper binary can be found.
func (p *Provider) IsAvailable(_ context.Context) bool {
	_, err := exec.LookPath(p.cfg.Binary)
	return err == nil
}

// Transcribe runs whisper on the audio file. Output is written next to the
// audio, so callers own cleanup through the directory they passed in.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if req.AudioPath == "" {
		return nil, fmt.Errorf("audio path is required")
	}
	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	outDir := filepath.Dir(req.AudioPath)

	args := []string{
		req.AudioPath,
		"--model", model,
		"--output_format", "json",
		"--output_dir", outDir,
		"--verbose", "False",
	}
	if req.Language != "" {
		args = append(args, "--language", req.Language)
	}
	if p.cfg.Device != "" {
		args = append(args, "--device", p.cfg.Device)
	}

	res, err := p.runner.Run(ctx, process.Command{Binary: p.cfg.Binary, Args: args})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("whisper: %w", err)
		}
		exitCode := -1
		if res != nil {
			exitCode = res.ExitCode
		}
		appErr := errors.ToolFailed("whisper", exitCode, err)
		if stderr := res.StderrTail(512); stderr != "" {
			appErr.WithDetail("stderr", stderr)
		}
		return nil, appErr
	}

	stem := strings.TrimSuffix(filepath.Base(req.AudioPath), filepath.Ext(req.AudioPath))
	outPath := filepath.Join(outDir, stem+".json")
	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	var out cliOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output %s: %w", outPath, err)
	}
	lang := out.Language
	if lang == "" {
		lang = req.Language
	}
	return transcription.NewResponse(out.Text, lang, out.Segments), nil
}

// cliOutput is the subset of whisper's --output_format json document we use.
type cliOutput struct {
	Text     string                  `json:"text"`
	Language string                  `json:"language"`
	Segments []transcription.Segment `json:"segments"`
}
