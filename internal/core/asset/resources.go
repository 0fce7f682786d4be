package asset

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// DefaultGlobalDirectories are registered for every module unless a title
// replaces the global set.
var DefaultGlobalDirectories = []string{
	"textures",
	"shaders",
	"materials",
	"meshes",
	"audio",
	"fonts",
}

// Resources tracks the resource directories shared by all modules and the
// locations each module registered.
type Resources struct {
	mu        sync.RWMutex
	global    map[string]struct{}
	locations map[string][]string
}

func NewResources() *Resources {
	r := &Resources{locations: make(map[string][]string)}
	r.ResetGlobalDirectories()
	return r
}

// ResetGlobalDirectories restores the global set to DefaultGlobalDirectories.
func (r *Resources) ResetGlobalDirectories() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global = make(map[string]struct{}, len(DefaultGlobalDirectories))
	for _, d := range DefaultGlobalDirectories {
		r.global[d] = struct{}{}
	}
}

func (r *Resources) addGlobal(dirs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range dirs {
		r.global[d] = struct{}{}
	}
}

func (r *Resources) GlobalDirectories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.global))
}

func (r *Resources) register(module string, paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations[module] = paths
}

func (r *Resources) unregister(module string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := r.locations[module]
	delete(r.locations, module)
	return removed
}

// Locations lists the absolute directories registered by module.
func (r *Resources) Locations(module string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.locations[module])
}

// Find looks file up in the registered locations. Modules are searched in
// name order, locations in registration order.
func (r *Resources) Find(file string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, module := range slices.Sorted(maps.Keys(r.locations)) {
		for _, dir := range r.locations[module] {
			p := filepath.Join(dir, file)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, true
			}
		}
	}
	return "", false
}
