package runtimes

import (
	"fmt"
	"sort"
	"sync"

	"github.com/petal-labs/ocbot/core"
)

// Factory creates a runtime instance authorized with the given token.
// Some runtimes (like memory) ignore the token.
type Factory func(token string) core.Runtime

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a runtime factory to the registry.
// It is typically called from a runtime's init() function.
// Registering a name twice overwrites the earlier factory.
//
//	func init() {
//	    runtimes.Register("httpapi", func(token string) core.Runtime {
//	        return New(token)
//	    })
//	}
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a runtime factory by name, or nil.
func Get(name string) Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

// Create creates a new runtime instance by name.
func Create(name, token string) (core.Runtime, error) {
	factory := Get(name)
	if factory == nil {
		return nil, fmt.Errorf("unknown runtime: %s (available: %v)", name, List())
	}
	return factory(token), nil
}

// List returns the names of all registered runtimes in sorted order.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered returns true if a runtime with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}
