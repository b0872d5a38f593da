package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// AdapterRegistry indexes adapters by provider kind and by the source
// slugs each adapter claims. A source may belong to only one adapter.
type AdapterRegistry struct {
	mu       sync.RWMutex
	byKind   map[ProviderKind]ProviderAdapter
	bySource map[string]ProviderAdapter
}

func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{
		byKind:   make(map[ProviderKind]ProviderAdapter),
		bySource: make(map[string]ProviderAdapter),
	}
}

func (r *AdapterRegistry) Register(adapter ProviderAdapter) error {
	if adapter == nil {
		return fmt.Errorf("core: adapter is nil")
	}
	kind := adapter.Kind()
	if err := kind.Validate(); err != nil {
		return err
	}
	sources := adapter.Sources()
	if len(sources) == 0 {
		return fmt.Errorf("core: adapter for %s declares no sources", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byKind[kind]; exists {
		return fmt.Errorf("core: adapter already registered for kind: %s", kind)
	}
	for _, source := range sources {
		source = strings.ToLower(strings.TrimSpace(source))
		if source == "" {
			return fmt.Errorf("core: adapter for %s declares an empty source", kind)
		}
		if owner, exists := r.bySource[source]; exists {
			return fmt.Errorf("core: source %s already claimed by %s adapter", source, owner.Kind())
		}
	}
	r.byKind[kind] = adapter
	for _, source := range sources {
		r.bySource[strings.ToLower(strings.TrimSpace(source))] = adapter
	}
	return nil
}

func (r *AdapterRegistry) Get(kind ProviderKind) (ProviderAdapter, bool) {
	r.mu.RLock()
	adapter, ok := r.byKind[kind]
	r.mu.RUnlock()
	return adapter, ok
}

func (r *AdapterRegistry) BySource(sourceID string) (ProviderAdapter, bool) {
	source := strings.ToLower(strings.TrimSpace(sourceID))
	if source == "" {
		return nil, false
	}
	r.mu.RLock()
	adapter, ok := r.bySource[source]
	r.mu.RUnlock()
	return adapter, ok
}

func (r *AdapterRegistry) List() []ProviderAdapter {
	r.mu.RLock()
	kinds := make([]string, 0, len(r.byKind))
	for kind := range r.byKind {
		kinds = append(kinds, string(kind))
	}
	r.mu.RUnlock()
	sort.Strings(kinds)

	adapters := make([]ProviderAdapter, 0, len(kinds))
	r.mu.RLock()
	for _, kind := range kinds {
		adapters = append(adapters, r.byKind[ProviderKind(kind)])
	}
	r.mu.RUnlock()
	return adapters
}

var _ Registry = (*AdapterRegistry)(nil)
