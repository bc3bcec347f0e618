package runtime

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/aretw0/sortviz/pkg/ports"
)

// Registry manages the available producers.
type Registry struct {
	mu        sync.RWMutex
	producers map[domain.Algorithm]ports.Producer
}

// NewRegistry creates a registry holding the given producers.
func NewRegistry(producers ...ports.Producer) *Registry {
	r := &Registry{
		producers: make(map[domain.Algorithm]ports.Producer, len(producers)),
	}
	for _, p := range producers {
		r.Register(p)
	}
	return r
}

// NewDefaultRegistry creates a registry with the four built-in engines.
func NewDefaultRegistry(countingOpts ...CountingOption) *Registry {
	return NewRegistry(
		NewBubbleEngine(),
		NewInsertionEngine(),
		NewSelectionEngine(),
		NewCountingEngine(countingOpts...),
	)
}

// Register adds a producer to the registry.
// If a producer for the same algorithm exists, it is overwritten.
func (r *Registry) Register(p ports.Producer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.producers[p.Algorithm()] = p
}

// Get resolves an algorithm name (aliases included) to its producer.
// Returns domain.ErrUnknownAlgorithm if the name is not recognised or not registered.
func (r *Registry) Get(name string) (ports.Producer, error) {
	algorithm, err := domain.ParseAlgorithm(name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	p, ok := r.producers[algorithm]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s is not registered", domain.ErrUnknownAlgorithm, algorithm)
	}
	return p, nil
}

// Algorithms lists the registered algorithms in the order of domain.Algorithms.
func (r *Registry) Algorithms() []domain.Algorithm {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Algorithm, 0, len(r.producers))
	for _, a := range domain.Algorithms() {
		if _, ok := r.producers[a]; ok {
			out = append(out, a)
		}
	}
	return slices.Clip(out)
}
