package mod

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Factory builds the behavior of a mod. It runs once the mod's Info has been
// read and its version accepted.
type Factory func(m *Mod) (Behavior, error)

// Registry maps mod directory names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(name string, f Factory) error {
	if f == nil {
		return fmt.Errorf("%w: %s: nil factory", ErrNoFactory, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrFactoryExists, name)
	}
	r.factories[name] = f
	return nil
}

func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

var defaultRegistry = NewRegistry()

// Register adds a factory to the process registry. Mods call it from an init
// function; a duplicate name panics like database/sql.Register.
func Register(name string, f Factory) {
	if err := defaultRegistry.Register(name, f); err != nil {
		panic(err)
	}
}

// DefaultRegistry is the registry Register writes to.
func DefaultRegistry() *Registry { return defaultRegistry }
