package state

import (
	"sync"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/ports"
)

// State is an insertion-ordered parameter map.
// A *State is meant to be shared: the module reads it during a cycle and
// configuration surfaces write it between cycles.
type State struct {
	mu     sync.RWMutex
	keys   []string
	values map[string]domain.Value
	gen    uint64
}

var _ ports.ModuleState = (*State)(nil)

// New creates an empty state.
func New() *State {
	return &State{values: make(map[string]domain.Value)}
}

// FromSnapshot creates a state holding the snapshot values in sorted key order.
func FromSnapshot(snap *domain.StateSnapshot) *State {
	s := New()
	if snap == nil {
		return s
	}
	for _, k := range sortedKeys(snap.Values) {
		s.SetValue(k, snap.Values[k])
	}
	return s
}

func (s *State) Value(name string) (domain.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// SetValue stores v under name. Writing an equal value is not a change.
func (s *State) SetValue(name string, v domain.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.values[name]
	if ok && old.Equal(v) {
		return
	}
	if !ok {
		s.keys = append(s.keys, name)
	}
	s.values[name] = v
	s.gen++
}

func (s *State) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.keys...)
}

func (s *State) Snapshot() map[string]domain.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *State) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Apply sets every value of the map, in sorted key order.
func (s *State) Apply(values map[string]domain.Value) {
	for _, k := range sortedKeys(values) {
		s.SetValue(k, values[k])
	}
}

// Null discards every write. It is used when no state factory is installed.
type Null struct{}

var _ ports.ModuleState = Null{}

func (Null) Value(string) (domain.Value, bool) { return domain.Value{}, false }
func (Null) SetValue(string, domain.Value)     {}
func (Null) Keys() []string                    { return nil }
func (Null) Snapshot() map[string]domain.Value { return map[string]domain.Value{} }
func (Null) Generation() uint64                { return 0 }

// Factory creates a fresh State for every module.
type Factory struct{}

func (Factory) MakeState(string) ports.ModuleState {
	return New()
}

// Make returns a state from f, or Null when f is nil.
func Make(f ports.StateFactory, moduleName string) ports.ModuleState {
	if f == nil {
		return Null{}
	}
	st := f.MakeState(moduleName)
	if st == nil {
		return Null{}
	}
	return st
}

// Snapshot captures st as a persistable snapshot.
func Snapshot(moduleID, moduleName string, st ports.ModuleState) *domain.StateSnapshot {
	snap := domain.NewStateSnapshot(moduleID, moduleName)
	snap.Values = st.Snapshot()
	return snap
}
