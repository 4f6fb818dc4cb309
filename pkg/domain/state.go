package domain

import "time"

// StateSnapshot is the persistable copy of one module state.
type StateSnapshot struct {
	ModuleID   string           `json:"module_id" yaml:"module_id"`
	ModuleName string           `json:"module_name" yaml:"module_name"`
	Values     map[string]Value `json:"values" yaml:"values"`
	SavedAt    time.Time        `json:"saved_at" yaml:"saved_at"`
}

// NewStateSnapshot creates an empty snapshot for a module.
func NewStateSnapshot(moduleID, moduleName string) *StateSnapshot {
	return &StateSnapshot{
		ModuleID:   moduleID,
		ModuleName: moduleName,
		Values:     make(map[string]Value),
	}
}

// Clone returns a deep copy of the snapshot.
func (s *StateSnapshot) Clone() *StateSnapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Values = make(map[string]Value, len(s.Values))
	for k, v := range s.Values {
		out.Values[k] = v
	}
	return &out
}
