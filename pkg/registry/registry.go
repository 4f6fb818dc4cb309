// Package registry keeps the live module instances of a runtime, keyed by id.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/module"
)

// Registry manages the instantiated modules.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*module.Module
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]*module.Module),
	}
}

// Add tracks m under its id. Ids are unique per Context, so an existing
// entry with the same id is only replaced when it is the same module.
func (r *Registry) Add(m *module.Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.modules[m.ID()]; ok && prev != m {
		return fmt.Errorf("%w: module id %s already registered", domain.ErrInvalidArgument, m.ID())
	}
	r.modules[m.ID()] = m
	return nil
}

// Get looks up a module by id.
func (r *Registry) Get(id string) (*module.Module, error) {
	r.mu.RLock()
	m, ok := r.modules[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, id)
	}
	return m, nil
}

// Remove drops the module and closes it.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	m, ok := r.modules[id]
	delete(r.modules, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrModuleNotFound, id)
	}
	return m.Close()
}

// List returns the registered ids in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.modules))
	for id := range r.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.modules)
}

// Execute looks up a module by id and runs one execution cycle.
func (r *Registry) Execute(ctx context.Context, id string) (domain.Outcome, error) {
	m, err := r.Get(id)
	if err != nil {
		return domain.Outcome{}, err
	}
	return m.DoExecute(ctx), nil
}

// CloseAll closes and forgets every module.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	mods := r.modules
	r.modules = make(map[string]*module.Module)
	r.mu.Unlock()
	for _, m := range mods {
		_ = m.Close()
	}
}
