package transcription

import (
	"context"

	"github.com/kbukum/ytranscript/provider"
)

// Provider is the interface speech-to-text backends implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Transcribe converts the audio file in req into time-aligned segments.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}
