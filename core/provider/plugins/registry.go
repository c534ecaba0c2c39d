package plugins

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vibestream/vibestream/core/config"
	logpkg "github.com/vibestream/vibestream/core/logger"
	"github.com/vibestream/vibestream/core/provider"
)

// Contribution describes the components a provider plugin can supply.
type Contribution struct {
	Provider  provider.Provider
	Providers []provider.Provider
}

// Factory creates a provider contribution based on config and logger.
type Factory func(cfg *config.Config, logger *logpkg.Logger) (*Contribution, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register registers a provider factory by name.
func Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("provider name required")
	}
	if factory == nil {
		return fmt.Errorf("provider factory required")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}
	factories[name] = factory
	return nil
}

// Get returns a registered factory by name.
func Get(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	factory, ok := factories[name]
	return factory, ok
}

// Names returns all registered provider names.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	nameList := make([]string, 0, len(factories))
	for name := range factories {
		nameList = append(nameList, name)
	}
	sort.Strings(nameList)
	return nameList
}
