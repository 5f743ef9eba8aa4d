package tools

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the available tool builders. It is thread-safe and
// supports registration at runtime.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Default returns a registry with every built-in tool registered.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(&CodemodBuilder{})
	r.MustRegister(&ESLintBuilder{})
	r.MustRegister(&PutoutBuilder{})
	return r
}

// Register adds a builder. Duplicate names are rejected.
func (r *Registry) Register(b Builder) error {
	if b.Name() == "" {
		return ErrBuilderNameEmpty
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.builders[b.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrBuilderAlreadyRegistered, b.Name())
	}
	r.builders[b.Name()] = b
	return nil
}

// MustRegister registers a builder and panics on error. Use for static
// registration at startup.
func (r *Registry) MustRegister(b Builder) {
	if err := r.Register(b); err != nil {
		panic(fmt.Sprintf("register tool builder %s: %v", b.Name(), err))
	}
}

// Get returns the builder for a tool name.
func (r *Registry) Get(name string) (Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBuilderNotFound, name)
	}
	return b, nil
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
