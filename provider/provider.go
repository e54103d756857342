package provider

import "context"

// Provider is the base interface every swappable backend implements.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable reports whether the backend can serve requests right now,
	// e.g. a binary is on PATH or a sidecar answers its health probe.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider instance from a loosely typed config map,
// usually a viper sub-tree.
type Factory[T Provider] func(cfg map[string]any) (T, error)
