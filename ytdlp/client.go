// Package ytdlp drives the yt-dlp command-line tool: caption availability
// probing, subtitle download and audio extraction.
package ytdlp

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kbukum/ytranscript/errors"
	"github.com/kbukum/ytranscript/logger"
	"github.com/kbukum/ytranscript/process"
)

// Kind selects the caption track written by WriteSubtitles.
type Kind string

const (
	KindManual    Kind = "manual"
	KindAutomatic Kind = "automatic"
)

const toolName = "yt-dlp"

// Client runs yt-dlp through a process.Runner.
type Client struct {
	cfg    Config
	runner process.Runner
	log    *logger.Logger
}

// New creates a client. A nil runner uses a process.Adapter configured with
// the downloader timeout and grace period.
func New(cfg Config, runner process.Runner, log *logger.Logger) *Client {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	if runner == nil {
		runner = process.NewAdapter(process.Config{
			Name:        toolName,
			Timeout:     cfg.Timeout,
			GracePeriod: cfg.GracePeriod,
		}, log)
	}
	return &Client{cfg: cfg, runner: runner, log: log.WithComponent("ytdlp")}
}

// Binary returns the configured executable.
func (c *Client) Binary() string { return c.cfg.Binary }

// ProbeSubtitles reports which caption kinds are advertised for url. In text
// mode the listing is inspected even when yt-dlp exits non-zero, so a
// ToolFailed error may come back together with a usable Availability.
func (c *Client) ProbeSubtitles(ctx context.Context, url string) (Availability, error) {
	if c.cfg.Probe == ProbeJSON {
		res, err := c.run(ctx, "probe", c.args(url, "-J", "--skip-download", "--no-warnings"))
		if err != nil {
			return Availability{}, err
		}
		return parseInfo(res.Stdout)
	}

	res, err := c.run(ctx, "probe", c.args(url, "--list-subs", "--skip-download"))
	if res == nil {
		return Availability{}, err
	}
	return parseListing(res.Output()), err
}

// WriteSubtitles writes the requested caption track as WebVTT into dir and
// returns the first .vtt file found there, or "" when none was produced.
func (c *Client) WriteSubtitles(ctx context.Context, url, language string, kind Kind, dir string) (string, error) {
	flag := "--write-subs"
	if kind == KindAutomatic {
		flag = "--write-auto-subs"
	}
	_, runErr := c.run(ctx, "write_subtitles", c.args(url,
		"--skip-download",
		flag,
		"--sub-lang", language,
		"--sub-format", "vtt",
		"-o", filepath.Join(dir, "%(id)s"),
	))
	if isContextErr(runErr) {
		return "", runErr
	}

	path, err := firstMatch(dir, "*.vtt")
	if err != nil {
		return "", err
	}
	if path != "" {
		if runErr != nil {
			c.log.WithContext(ctx).Warn("yt-dlp reported an error but produced subtitles",
				logger.Fields(logger.FieldURL, url, "kind", string(kind), logger.FieldError, runErr.Error()))
		}
		return path, nil
	}
	return "", runErr
}

// ExtractAudio downloads the best audio stream of url, converts it to WAV in
// dir and returns the produced file.
func (c *Client) ExtractAudio(ctx context.Context, url, dir string) (string, error) {
	_, err := c.run(ctx, "extract_audio", c.args(url,
		"-f", "bestaudio",
		"-x",
		"--audio-format", "wav",
		"-o", filepath.Join(dir, "audio.%(ext)s"),
	))
	if err != nil {
		return "", err
	}
	path, err := firstMatch(dir, "audio.*")
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", errors.ToolFailed(toolName, 0, fmt.Errorf("no audio file produced in %s", dir))
	}
	return path, nil
}

// args appends configured extra args and the URL after the operation args.
func (c *Client) args(url string, op ...string) []string {
	args := make([]string, 0, len(op)+len(c.cfg.ExtraArgs)+2)
	args = append(args, op...)
	args = append(args, c.cfg.ExtraArgs...)
	return append(args, "--", url)
}

// run executes yt-dlp and maps failures: context errors pass through
// (deadline as Timeout), anything else becomes ToolFailed with stderr attached.
func (c *Client) run(ctx context.Context, op string, args []string) (*process.Result, error) {
	res, err := c.runner.Run(ctx, process.Command{Binary: c.cfg.Binary, Args: args})
	if err == nil {
		return res, nil
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return res, errors.Timeout(toolName + " " + op).WithCause(err)
	}
	if stderrors.Is(err, context.Canceled) {
		return res, fmt.Errorf("%s %s: %w", toolName, op, err)
	}

	exitCode := -1
	if res != nil {
		exitCode = res.ExitCode
	}
	appErr := errors.ToolFailed(toolName, exitCode, err).WithDetail(logger.FieldOperation, op)
	if stderr := res.StderrTail(512); stderr != "" {
		appErr.WithDetail("stderr", stderr)
	}
	return res, appErr
}

func isContextErr(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}

// firstMatch returns the lexically first file in dir matching pattern.
func firstMatch(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("glob %s: %w", pattern, err)
	}
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			return m, nil
		}
	}
	return "", nil
}
