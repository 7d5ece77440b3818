package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/mwindsor/feedline/stage"
)

// Factory builds a stage from its configuration. parent is the owning
// pipeline's name; ctx covers any construction-time I/O (e.g. a dataset
// provider's load).
type Factory func(ctx context.Context, cfg stage.Config, parent string) (stage.Stage, error)

// Registry maps stage kinds to factories. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty stage factory registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given kind. Overwrites any existing
// registration.
func (r *Registry) Register(kind string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.factories == nil {
		r.factories = make(map[string]Factory)
	}
	r.factories[kind] = f
}

// Get returns the factory for kind, or nil and false if not found.
func (r *Registry) Get(kind string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[kind]
	return f, ok
}

// MustGet returns the factory for kind, or panics if not found.
func (r *Registry) MustGet(kind string) Factory {
	f, ok := r.Get(kind)
	if !ok {
		panic(fmt.Sprintf("config: stage kind %q not registered", kind))
	}
	return f
}

// Names returns all registered kinds (unordered).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	return names
}
