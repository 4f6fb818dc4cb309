package domain

import "sort"

// StateDiff represents the changes between two state snapshots of one module.
// It is designed to be serialized to JSON for partial updates on a client.
type StateDiff struct {
	// ModuleID is always present to identify the target.
	ModuleID string `json:"module_id"`

	// Changed contains added or modified keys with their new value.
	Changed map[string]Value `json:"changed,omitempty"`

	// Removed lists keys present in the old snapshot only.
	Removed []string `json:"removed,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *StateSnapshot) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		ModuleID: newState.ModuleID,
		Changed:  diffValues(oldState, newState),
	}

	if oldState != nil {
		for k := range oldState.Values {
			if _, exists := newState.Values[k]; !exists {
				diff.Removed = append(diff.Removed, k)
			}
		}
		sort.Strings(diff.Removed)
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffValues(old *StateSnapshot, new *StateSnapshot) map[string]Value {
	delta := make(map[string]Value)

	// If old is nil, everything in new is a delta
	if old == nil {
		for k, v := range new.Values {
			delta[k] = v
		}
		return delta
	}

	for k, newVal := range new.Values {
		oldVal, exists := old.Values[k]
		if !exists || !oldVal.Equal(newVal) {
			delta[k] = newVal
		}
	}

	// Return nil if delta is empty so omitempty can remove the key
	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return len(d.Changed) == 0 && len(d.Removed) == 0
}
