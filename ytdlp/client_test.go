package ytdlp

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/ytranscript/errors"
	"github.com/kbukum/ytranscript/process"
)

const testURL = "https://www.youtube.com/watch?v=abc123"

// fakeRunner records commands and answers with a canned result. When write
// is set it is called with the -o template so tests can drop files the way
// yt-dlp would.
type fakeRunner struct {
	calls  []process.Command
	result *process.Result
	err    error
	write  func(outTemplate string)
}

func (f *fakeRunner) Run(ctx context.Context, cmd process.Command) (*process.Result, error) {
	f.calls = append(f.calls, cmd)
	if f.write != nil {
		for i, a := range cmd.Args {
			if a == "-o" && i+1 < len(cmd.Args) {
				f.write(cmd.Args[i+1])
			}
		}
	}
	res := f.result
	if res == nil {
		res = &process.Result{}
	}
	return res, f.err
}

func hasArgs(args []string, want ...string) bool {
	joined := " " + strings.Join(args, " ") + " "
	return strings.Contains(joined, " "+strings.Join(want, " ")+" ")
}

func TestProbeSubtitlesTextMarkers(t *testing.T) {
	tests := []struct {
		name   string
		output string
		manual bool
		auto   bool
	}{
		{"manual only", "[info] Available subtitles for abc123:\nLanguage Formats\nen vtt", true, false},
		{"auto only", "[info] Available automatic captions for abc123:\nen vtt", false, true},
		{"loose auto marker", "abc123 has AUTOMATIC CAPTIONS listed", false, true},
		{"both", "[info] Available automatic captions for abc123:\n[info] Available subtitles for abc123:", true, true},
		{"none", "[info] abc123 has no subtitles", false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			runner := &fakeRunner{result: &process.Result{Stdout: []byte(tc.output)}}
			c := New(Config{}, runner, nil)
			avail, err := c.ProbeSubtitles(context.Background(), testURL)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if avail.Manual != tc.manual || avail.Automatic != tc.auto {
				t.Errorf("got %+v, want manual=%v auto=%v", avail, tc.manual, tc.auto)
			}
			if avail.Any() != (tc.manual || tc.auto) {
				t.Error("Any() disagrees with flags")
			}
			args := runner.calls[0].Args
			if runner.calls[0].Binary != DefaultBinary || !hasArgs(args, "--list-subs") || args[len(args)-1] != testURL {
				t.Errorf("unexpected command %v", runner.calls[0])
			}
		})
	}
}

func TestProbeSubtitlesTextReadsStderrAndFailure(t *testing.T) {
	runner := &fakeRunner{
		result: &process.Result{Stderr: []byte("[info] Available subtitles for abc123:\nERROR: boom"), ExitCode: 1},
		err:    fmt.Errorf("process: exit code 1"),
	}
	c := New(Config{}, runner, nil)
	avail, err := c.ProbeSubtitles(context.Background(), testURL)
	if !errors.HasCode(err, errors.ErrCodeToolFailed) {
		t.Fatalf("expected TOOL_FAILED, got %v", err)
	}
	if !avail.Manual {
		t.Error("listing should still be inspected on failure")
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Details["exit_code"] != 1 || !strings.Contains(fmt.Sprint(appErr.Details["stderr"]), "ERROR: boom") {
		t.Errorf("unexpected details %v", appErr.Details)
	}
}

func TestProbeSubtitlesJSON(t *testing.T) {
	info := `{"id":"abc123","subtitles":{"live_chat":[{"ext":"json"}],"de":[{"ext":"vtt"}],"en":[{"ext":"vtt"}]},"automatic_captions":{"fr":[]}}`
	runner := &fakeRunner{result: &process.Result{Stdout: []byte(info)}}
	c := New(Config{Probe: ProbeJSON}, runner, nil)
	avail, err := c.ProbeSubtitles(context.Background(), testURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !avail.Manual || avail.Automatic {
		t.Errorf("unexpected availability %+v", avail)
	}
	if strings.Join(avail.ManualLanguages, ",") != "de,en" {
		t.Errorf("expected sorted languages without live_chat, got %v", avail.ManualLanguages)
	}
	if !hasArgs(runner.calls[0].Args, "-J") {
		t.Errorf("expected -J probe, got %v", runner.calls[0].Args)
	}
}

func TestProbeSubtitlesJSONInvalid(t *testing.T) {
	runner := &fakeRunner{result: &process.Result{Stdout: []byte("not json")}}
	c := New(Config{Probe: ProbeJSON}, runner, nil)
	if _, err := c.ProbeSubtitles(context.Background(), testURL); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestWriteSubtitlesManual(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{write: func(tpl string) {
		_ = os.WriteFile(strings.Replace(tpl, "%(id)s", "abc123", 1)+".en.vtt", []byte("WEBVTT\n"), 0o644)
	}}
	c := New(Config{ExtraArgs: []string{"--cookies", "c.txt"}}, runner, nil)

	path, err := c.WriteSubtitles(context.Background(), testURL, "en", KindManual, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "abc123.en.vtt") {
		t.Errorf("unexpected path %q", path)
	}
	args := runner.calls[0].Args
	for _, want := range [][]string{
		{"--skip-download", "--write-subs"},
		{"--sub-lang", "en"},
		{"--sub-format", "vtt"},
		{"-o", filepath.Join(dir, "%(id)s")},
		{"--cookies", "c.txt", "--", testURL},
	} {
		if !hasArgs(args, want...) {
			t.Errorf("expected %v in %v", want, args)
		}
	}
}

func TestWriteSubtitlesAutomaticFlag(t *testing.T) {
	runner := &fakeRunner{}
	c := New(Config{}, runner, nil)
	path, err := c.WriteSubtitles(context.Background(), testURL, "en", KindAutomatic, t.TempDir())
	if err != nil || path != "" {
		t.Fatalf("expected no file and no error, got %q %v", path, err)
	}
	if !hasArgs(runner.calls[0].Args, "--write-auto-subs") {
		t.Errorf("expected --write-auto-subs in %v", runner.calls[0].Args)
	}
}

func TestWriteSubtitlesToolFailure(t *testing.T) {
	runner := &fakeRunner{result: &process.Result{ExitCode: 2}, err: fmt.Errorf("process: exit code 2")}
	c := New(Config{}, runner, nil)
	_, err := c.WriteSubtitles(context.Background(), testURL, "en", KindManual, t.TempDir())
	if !errors.HasCode(err, errors.ErrCodeToolFailed) {
		t.Fatalf("expected TOOL_FAILED, got %v", err)
	}
}

func TestWriteSubtitlesFileWinsOverExitCode(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{
		result: &process.Result{ExitCode: 1},
		err:    fmt.Errorf("process: exit code 1"),
		write: func(tpl string) {
			_ = os.WriteFile(strings.Replace(tpl, "%(id)s", "abc123", 1)+".en.vtt", []byte("WEBVTT\n"), 0o644)
		},
	}
	c := New(Config{}, runner, nil)
	path, err := c.WriteSubtitles(context.Background(), testURL, "en", KindManual, dir)
	if err != nil || path == "" {
		t.Fatalf("expected produced file to be returned, got %q %v", path, err)
	}
}

func TestWriteSubtitlesTimeout(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("process: killed by context: %w", context.DeadlineExceeded)}
	c := New(Config{}, runner, nil)
	_, err := c.WriteSubtitles(context.Background(), testURL, "en", KindManual, t.TempDir())
	if !errors.HasCode(err, errors.ErrCodeTimeout) {
		t.Fatalf("expected TIMEOUT, got %v", err)
	}
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Error("expected deadline in chain")
	}
}

func TestExtractAudio(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{write: func(tpl string) {
		_ = os.WriteFile(strings.Replace(tpl, "%(ext)s", "wav", 1), []byte("RIFF"), 0o644)
	}}
	c := New(Config{Binary: "/opt/yt-dlp"}, runner, nil)
	path, err := c.ExtractAudio(context.Background(), testURL, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "audio.wav") {
		t.Errorf("unexpected path %q", path)
	}
	if runner.calls[0].Binary != "/opt/yt-dlp" {
		t.Errorf("expected configured binary, got %q", runner.calls[0].Binary)
	}
	if !hasArgs(runner.calls[0].Args, "-f", "bestaudio", "-x", "--audio-format", "wav") {
		t.Errorf("unexpected args %v", runner.calls[0].Args)
	}
}

func TestExtractAudioNoFile(t *testing.T) {
	c := New(Config{}, &fakeRunner{}, nil)
	_, err := c.ExtractAudio(context.Background(), testURL, t.TempDir())
	if !errors.HasCode(err, errors.ErrCodeToolFailed) {
		t.Fatalf("expected TOOL_FAILED when nothing produced, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"json probe", Config{Probe: ProbeJSON}, false},
		{"bad probe", Config{Probe: "xml"}, true},
		{"negative timeout", Config{Timeout: -1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRunWithRealProcess(t *testing.T) {
	script := filepath.Join(t.TempDir(), "yt-dlp")
	body := "#!/bin/sh\necho '[info] Available automatic captions for abc123:'\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	c := New(Config{Binary: script}, nil, nil)
	avail, err := c.ProbeSubtitles(context.Background(), testURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avail.Manual || !avail.Automatic {
		t.Errorf("unexpected availability %+v", avail)
	}
}
