package transcription

import "github.com/kbukum/ytranscript/provider"

// Registry is a provider registry specialised to speech backends.
type Registry = provider.Registry[Provider]

// NewRegistry creates an empty registry. Backends register themselves with
// RegisterFactory; the app registers every built-in backend at startup.
func NewRegistry() *Registry {
	return provider.NewRegistry[Provider]()
}
