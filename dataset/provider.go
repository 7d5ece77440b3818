package dataset

import (
	"context"
	"os"
	"sync"
)

// Provider materializes one split of a dataset. root is the deterministic
// storage path for the dataset (e.g. data/<name>); when download is true the
// dataset is not present locally and the provider is expected to fetch it.
// Providers return raw collections: transforms are attached by the caller.
type Provider interface {
	Load(ctx context.Context, root, split string, download bool) (Collection, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, root, split string, download bool) (Collection, error)

// Load implements Provider.
func (f ProviderFunc) Load(ctx context.Context, root, split string, download bool) (Collection, error) {
	return f(ctx, root, split, download)
}

// ProviderRegistry maps dataset names to providers. It is built explicitly at
// startup and injected into whatever resolves dataset configuration; there is
// no ambient global registry. Safe for concurrent use.
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewProviderRegistry returns an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{providers: make(map[string]Provider)}
}

// Register adds a provider under the given dataset name. Overwrites any
// existing registration.
func (r *ProviderRegistry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.providers == nil {
		r.providers = make(map[string]Provider)
	}
	r.providers[name] = p
}

// Get returns the provider for name, or a NotFoundError.
func (r *ProviderRegistry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, &NotFoundError{Kind: "dataset", Name: name}
	}
	return p, nil
}

// Names returns all registered dataset names (unordered).
func (r *ProviderRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	return names
}

// Downloaded reports whether the dataset root exists on disk. This is a bare
// existence probe, not a content or checksum validation: a partial or stale
// directory still counts as downloaded.
func Downloaded(root string) bool {
	_, err := os.Stat(root)
	return err == nil
}
