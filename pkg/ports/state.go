package ports

import "github.com/aretw0/dataflow/pkg/domain"

// ModuleState is the parameter storage of one module.
// A state may be shared between the module and configuration surfaces.
type ModuleState interface {
	Value(name string) (domain.Value, bool)
	SetValue(name string, v domain.Value)
	// Keys returns the parameter names in insertion order.
	Keys() []string
	// Snapshot returns a copy of every parameter.
	Snapshot() map[string]domain.Value
	// Generation increases on every effective change.
	Generation() uint64
}

// StateFactory creates the state of each new module.
type StateFactory interface {
	MakeState(moduleName string) ModuleState
}

// StateFactoryFunc adapts a function to StateFactory.
type StateFactoryFunc func(moduleName string) ModuleState

func (f StateFactoryFunc) MakeState(moduleName string) ModuleState {
	return f(moduleName)
}
