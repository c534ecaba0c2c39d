package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/vibestream/vibestream/core"
)

// Registry holds the registered providers in priority order.
// Registration order is the fallback-chain order used by the resolver.
type Registry struct {
	mu        sync.RWMutex
	order     []string
	providers map[string]Provider
	logger    core.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger core.Logger) *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		logger:    logger,
	}
}

// Register adds a provider. Re-registering a name replaces the provider
// but keeps its original position in the priority order.
func (r *Registry) Register(p Provider) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.providers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.providers[name] = p
}

// Get retrieves a provider by name. Returns nil if not registered.
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// BySource retrieves the provider for a source enum value.
// Returns nil if no provider for that source is registered.
func (r *Registry) BySource(source Source) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		if p := r.providers[name]; p != nil && p.Source() == source {
			return p
		}
	}
	return nil
}

// Names returns the registered provider names in priority order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// GetProvider retrieves a provider by name and returns an error if not found.
func (r *Registry) GetProvider(name string) (Provider, error) {
	p := r.Get(name)
	if p == nil {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return p, nil
}

// SafeSearch performs a search that never fails: transport or parse errors
// are logged and degraded to an empty result set, so callers above the
// resolver never see a provider error.
func (r *Registry) SafeSearch(ctx context.Context, name, query string, limit int) []Track {
	p := r.Get(name)
	if p == nil {
		if r.logger != nil {
			r.logger.Warn("search against unregistered provider", "provider", name)
		}
		return nil
	}

	tracks, err := p.Search(ctx, query, limit)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("provider search failed", "provider", name, "query", query, "error", err)
		}
		return nil
	}
	return tracks
}
