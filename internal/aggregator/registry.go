// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package aggregator

import "sync"

// Registry maps source slugs to their [SourceAdapter] implementations.
//
// It is constructed once at process start and injected into the [Service] —
// never a package-level singleton, so tests get isolated registries.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]SourceAdapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]SourceAdapter)}
}

// Register binds an adapter to a source slug, replacing any previous binding.
func (registry *Registry) Register(sourceSlug string, adapter SourceAdapter) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.adapters[sourceSlug] = adapter
}

// Resolve returns the adapter bound to the slug, or ErrAdapterNotRegistered.
func (registry *Registry) Resolve(sourceSlug string) (SourceAdapter, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	adapter, found := registry.adapters[sourceSlug]
	if !found {
		return nil, ErrAdapterNotRegistered(sourceSlug)
	}

	return adapter, nil
}
