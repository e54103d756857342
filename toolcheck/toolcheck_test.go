package toolcheck

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/ytranscript/component"
	"github.com/kbukum/ytranscript/process"
)

func fakeLookup(paths map[string]string) Lookup {
	return func(file string) (string, error) {
		if p, ok := paths[file]; ok {
			return p, nil
		}
		return "", errors.New("executable file not found in $PATH")
	}
}

func versionRunner(out map[string]string, calls *[]process.Command) process.Runner {
	return process.RunnerFunc(func(ctx context.Context, cmd process.Command) (*process.Result, error) {
		if calls != nil {
			*calls = append(*calls, cmd)
		}
		v, ok := out[cmd.Binary]
		if !ok {
			return &process.Result{ExitCode: 2, Stderr: []byte("unknown option")}, errors.New("exit status 2")
		}
		return &process.Result{Stdout: []byte(v)}, nil
	})
}

func TestCheck(t *testing.T) {
	var calls []process.Command
	checker := NewChecker(
		versionRunner(map[string]string{"/usr/bin/yt-dlp": "\n2026.09.01\n"}, &calls),
		WithLookup(fakeLookup(map[string]string{"yt-dlp": "/usr/bin/yt-dlp", "whisper": "/opt/whisper"})),
	)

	tests := []struct {
		name      string
		req       Requirement
		available bool
		version   string
		detail    string
	}{
		{"found with version", Requirement{Name: "yt-dlp", Command: "yt-dlp", VersionArgs: []string{"--version"}}, true, "2026.09.01", ""},
		{"found without version probe", Requirement{Name: "whisper", Command: "whisper"}, true, "", ""},
		{"missing", Requirement{Name: "ffmpeg", Command: "ffmpeg"}, false, "", `binary "ffmpeg" not found`},
		{"not configured", Requirement{Name: "empty", Command: "  "}, false, "", "command not configured"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := checker.Check(context.Background(), tc.req)
			if st.Available != tc.available || st.Version != tc.version || st.Detail != tc.detail {
				t.Errorf("got %+v", st)
			}
		})
	}
	if len(calls) != 1 || calls[0].Args[0] != "--version" {
		t.Errorf("expected a single version probe, got %v", calls)
	}
}

func TestCheckVersionProbeFailureStillAvailable(t *testing.T) {
	checker := NewChecker(
		versionRunner(nil, nil),
		WithLookup(fakeLookup(map[string]string{"whisper": "/opt/whisper"})),
	)
	st := checker.Check(context.Background(), Requirement{Name: "whisper", Command: "whisper", VersionArgs: []string{"--version"}})
	if !st.Available {
		t.Fatal("expected available")
	}
	if !strings.Contains(st.Detail, "version probe failed") {
		t.Errorf("unexpected detail %q", st.Detail)
	}
}

func TestCheckVersionFromStderr(t *testing.T) {
	runner := process.RunnerFunc(func(ctx context.Context, cmd process.Command) (*process.Result, error) {
		return &process.Result{Stderr: []byte("ffmpeg version 7.1\n")}, nil
	})
	checker := NewChecker(runner, WithLookup(fakeLookup(map[string]string{"ffmpeg": "/usr/bin/ffmpeg"})))
	st := checker.Check(context.Background(), Requirement{Name: "ffmpeg", Command: "ffmpeg", VersionArgs: []string{"-version"}})
	if st.Version != "ffmpeg version 7.1" {
		t.Errorf("expected version from stderr, got %q", st.Version)
	}
}

func TestMissing(t *testing.T) {
	statuses := []Status{
		{Requirement: Requirement{Name: "yt-dlp"}, Available: true},
		{Requirement: Requirement{Name: "whisper", Optional: true}},
		{Requirement: Requirement{Name: "ffmpeg"}},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "ffmpeg" {
		t.Errorf("expected only ffmpeg missing, got %+v", missing)
	}
}

func TestComponentHealth(t *testing.T) {
	paths := map[string]string{"yt-dlp": "/usr/bin/yt-dlp"}
	checker := NewChecker(
		versionRunner(map[string]string{"/usr/bin/yt-dlp": "2026.09.01"}, nil),
		WithLookup(fakeLookup(paths)),
	)

	ytdlp := NewComponent(Requirement{Name: "yt-dlp", Command: "yt-dlp", VersionArgs: []string{"--version"}}, checker, nil)
	whisper := NewComponent(Requirement{Name: "whisper", Command: "whisper", Optional: true}, checker, nil)
	ffmpeg := NewComponent(Requirement{Name: "ffmpeg", Command: "ffmpeg"}, checker, nil)

	for _, c := range []*Component{ytdlp, whisper, ffmpeg} {
		if err := c.Start(context.Background()); err != nil {
			t.Fatalf("Start must not fail for %s: %v", c.Name(), err)
		}
	}

	h := ytdlp.Health(context.Background())
	if h.Status != component.StatusHealthy || h.Message != "2026.09.01" {
		t.Errorf("unexpected yt-dlp health %+v", h)
	}
	if h := whisper.Health(context.Background()); h.Status != component.StatusDegraded {
		t.Errorf("expected optional missing tool degraded, got %+v", h)
	}
	if h := ffmpeg.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected required missing tool unhealthy, got %+v", h)
	}

	if d := ytdlp.Describe(); d.Details != "/usr/bin/yt-dlp" || d.Type != "tool" {
		t.Errorf("unexpected description %+v", d)
	}
	if d := ffmpeg.Describe(); d.Details != `binary "ffmpeg" not found` {
		t.Errorf("unexpected description for missing tool %+v", d)
	}

	delete(paths, "yt-dlp")
	if h := ytdlp.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected health to notice the removed binary, got %+v", h)
	}
}
