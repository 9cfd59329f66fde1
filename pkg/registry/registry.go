package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// Factory builds a custom effect from the arguments declared in a module definition.
// It runs once, when the module is compiled, so argument errors surface before playback.
type Factory func(args map[string]any) (domain.EffectFunc, error)

// Registry manages the available custom effects.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Default returns a registry preloaded with the built-in effects.
func Default() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

// Register adds an effect factory to the registry.
// If an effect with the same name exists, it is overwritten.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Build looks up an effect by name and instantiates it with args.
func (r *Registry) Build(name string, args map[string]any) (domain.Effect, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return domain.Effect{}, fmt.Errorf("%w: %s", domain.ErrUnknownEffect, name)
	}

	fn, err := f(args)
	if err != nil {
		return domain.Effect{}, fmt.Errorf("effect %s: %w", name, err)
	}
	return domain.Custom(name, fn), nil
}

// Names returns the registered effect names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
