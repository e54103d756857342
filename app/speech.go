package app

import (
	"context"
	"time"

	"github.com/kbukum/ytranscript/component"
	"github.com/kbukum/ytranscript/transcription"
	"github.com/kbukum/ytranscript/transcription/localwhisper"
	"github.com/kbukum/ytranscript/transcription/whisper"
)

const speechProbeTimeout = 3 * time.Second

// NewSpeechRegistry returns a registry holding every built-in backend.
func NewSpeechRegistry() *transcription.Registry {
	reg := transcription.NewRegistry()
	reg.RegisterFactory(localwhisper.ProviderName, localwhisper.Factory)
	reg.RegisterFactory(whisper.ProviderName, whisper.Factory)
	return reg
}

// NewSpeechProvider builds the configured backend.
func NewSpeechProvider(cfg SpeechConfig) (transcription.Provider, error) {
	return NewSpeechRegistry().Create(cfg.Backend, cfg.Options())
}

// speechComponent reports whether a remote speech backend answers. The
// fallback is the only consumer, so an unreachable backend degrades the
// service instead of failing it.
type speechComponent struct {
	provider transcription.Provider
	target   string
}

func (s *speechComponent) Name() string                { return "speech-" + s.provider.Name() }
func (s *speechComponent) Start(context.Context) error { return nil }
func (s *speechComponent) Stop(context.Context) error  { return nil }

func (s *speechComponent) Health(ctx context.Context) component.Health {
	ctx, cancel := context.WithTimeout(ctx, speechProbeTimeout)
	defer cancel()
	if s.provider.IsAvailable(ctx) {
		return component.Health{Name: s.Name(), Status: component.StatusHealthy, Message: s.target}
	}
	return component.Health{Name: s.Name(), Status: component.StatusDegraded, Message: s.target + " not reachable"}
}

func (s *speechComponent) Describe() component.Description {
	return component.Description{Type: "speech", Details: s.target}
}
