package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func snapshot(values map[string]Value) *StateSnapshot {
	s := NewStateSnapshot("SendScalar0", "SendScalar")
	for k, v := range values {
		s.Values[k] = v
	}
	return s
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name        string
		old         *StateSnapshot
		new         *StateSnapshot
		wantNil     bool
		wantChanged map[string]Value
		wantRemoved []string
	}{
		{
			name:        "Initial Load (Old is Nil)",
			old:         nil,
			new:         snapshot(map[string]Value{"Value": FloatValue(1.5)}),
			wantChanged: map[string]Value{"Value": FloatValue(1.5)},
		},
		{
			name:    "No Changes",
			old:     snapshot(map[string]Value{"Value": FloatValue(1.5)}),
			new:     snapshot(map[string]Value{"Value": FloatValue(1.5)}),
			wantNil: true,
		},
		{
			name:        "Kind Change Counts As Modification",
			old:         snapshot(map[string]Value{"Value": IntValue(1)}),
			new:         snapshot(map[string]Value{"Value": FloatValue(1)}),
			wantChanged: map[string]Value{"Value": FloatValue(1)},
		},
		{
			name:        "Removal",
			old:         snapshot(map[string]Value{"A": BoolValue(true), "B": StringValue("x")}),
			new:         snapshot(map[string]Value{"A": BoolValue(true)}),
			wantRemoved: []string{"B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil diff, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected diff, got nil")
			}
			if len(got.Changed) != len(tt.wantChanged) {
				t.Fatalf("Changed = %v, want %v", got.Changed, tt.wantChanged)
			}
			for k, want := range tt.wantChanged {
				if !got.Changed[k].Equal(want) {
					t.Errorf("Changed[%q] = %v, want %v", k, got.Changed[k], want)
				}
			}
			if strings.Join(got.Removed, ",") != strings.Join(tt.wantRemoved, ",") {
				t.Errorf("Removed = %v, want %v", got.Removed, tt.wantRemoved)
			}
		})
	}
}

func TestDiff_JSONOmitsEmptyFields(t *testing.T) {
	d := Diff(snapshot(nil), snapshot(map[string]Value{"Value": IntValue(2)}))
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "removed") {
		t.Errorf("expected removed to be omitted, got %s", data)
	}
	if !strings.Contains(string(data), `"module_id":"SendScalar0"`) {
		t.Errorf("expected module id in payload, got %s", data)
	}
}
