package whisper

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/ytranscript/errors"
	"github.com/kbukum/ytranscript/transcription"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF-fake-wave"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if !strings.HasPrefix(r.UserAgent(), "ytranscript/") {
			http.Error(w, "missing user agent", http.StatusBadRequest)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.FormValue("model") != "small" || r.FormValue("language") != "en" {
			http.Error(w, "unexpected form", http.StatusBadRequest)
			return
		}
		f, _, err := r.FormFile("audio")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(f)
		if string(data) != "RIFF-fake-wave" {
			http.Error(w, "bad audio", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text": " hi there",
			"segments": []map[string]any{
				{"text": " hi", "start": 0.0, "end": 0.8},
				{"text": " there", "start": 0.8, "end": 1.6},
			},
		})
	}))
	defer srv.Close()

	p := NewProvider(Config{URL: srv.URL + "/", Model: "small"})
	resp, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: writeAudio(t), Language: "en"})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if len(resp.Segments) != 2 || resp.Segments[0].Text != "hi" || resp.Segments[1].End != 1.6 {
		t.Errorf("unexpected segments %+v", resp.Segments)
	}
	if resp.Language != "en" {
		t.Errorf("expected request language as fallback, got %q", resp.Language)
	}
}

func TestTranscribeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProvider(Config{URL: srv.URL})
	_, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: writeAudio(t)})
	if !errors.HasCode(err, errors.ErrCodeExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestTranscribeSidecarDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewProvider(Config{URL: url})
	_, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: writeAudio(t)})
	if !errors.HasCode(err, errors.ErrCodeServiceUnavailable) {
		t.Fatalf("expected service unavailable error, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Cause == nil || !appErr.Retryable {
		t.Errorf("expected retryable error with cause, got %+v", appErr)
	}
}

func TestTranscribeMissingAudio(t *testing.T) {
	p := NewProvider(Config{})
	if _, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: "/nonexistent.wav"}); err == nil {
		t.Fatal("expected error for missing audio")
	}
}

func TestIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	p := NewProvider(Config{URL: srv.URL})
	if !p.IsAvailable(context.Background()) {
		t.Error("expected provider to be available")
	}
	srv.Close()
	if p.IsAvailable(context.Background()) {
		t.Error("expected provider to be unavailable after server close")
	}
}

func TestFactory(t *testing.T) {
	reg := transcription.NewRegistry()
	reg.RegisterFactory(ProviderName, Factory)
	p, err := reg.Create(ProviderName, map[string]any{"url": "http://sidecar:9000", "timeout": "30s"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	wp := p.(*Provider)
	if wp.cfg.URL != "http://sidecar:9000" || wp.cfg.Timeout != 30*time.Second || wp.cfg.Model != defaultModel {
		t.Errorf("unexpected config %+v", wp.cfg)
	}
	if p.Name() != ProviderName {
		t.Errorf("unexpected name %q", p.Name())
	}

	if _, err := Factory(map[string]any{"timeout": "later"}); err == nil {
		t.Error("expected error for bad timeout")
	}
}
