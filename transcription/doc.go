// Package transcription defines the speech-to-text provider contract used by
// the speech fallback, plus a registry of backend factories.
//
// # Backends
//
//   - transcription/localwhisper: whisper CLI, model loaded per invocation
//   - transcription/whisper: faster-whisper HTTP sidecar
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	p, err := reg.Create(localwhisper.ProviderName, map[string]any{"model": "base"})
//	resp, err := p.Transcribe(ctx, transcription.Request{AudioPath: path, Language: "en"})
package transcription
