package dataset

import "sync"

// Weights is a named pretrained-weights entry. Transforms returns the
// canonical preprocessing recipe bound to those weights; resolving a dataset
// with a weights identifier uses this transform instead of the default.
type Weights interface {
	Transforms() Transform
}

// WeightsFunc adapts a transform-producing function to the Weights interface.
type WeightsFunc func() Transform

// Transforms implements Weights.
func (f WeightsFunc) Transforms() Transform { return f() }

// WeightsRegistry maps pretrained-weights identifiers to their entries.
// Like ProviderRegistry it is built explicitly and injected. Safe for
// concurrent use.
type WeightsRegistry struct {
	mu      sync.RWMutex
	weights map[string]Weights
}

// NewWeightsRegistry returns an empty registry.
func NewWeightsRegistry() *WeightsRegistry {
	return &WeightsRegistry{weights: make(map[string]Weights)}
}

// Register adds weights under the given identifier. Overwrites any existing
// registration.
func (r *WeightsRegistry) Register(name string, w Weights) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.weights == nil {
		r.weights = make(map[string]Weights)
	}
	r.weights[name] = w
}

// Get returns the weights for name, or a NotFoundError.
func (r *WeightsRegistry) Get(name string) (Weights, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.weights[name]
	if !ok {
		return nil, &NotFoundError{Kind: "weights", Name: name}
	}
	return w, nil
}
