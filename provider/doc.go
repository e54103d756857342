// Package provider holds the generic provider contract shared by swappable
// backends (speech-to-text engines today) and a registry of named factories.
//
// Usage:
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	reg.RegisterFactory("http", whisper.Factory)
//	p, err := reg.Create("http", map[string]any{"url": "http://localhost:9000"})
package provider
