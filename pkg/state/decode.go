package state

import (
	"fmt"
	"sort"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// Decode copies st into the struct pointed to by out.
// Fields are matched through `mapstructure` tags and weakly typed, so a
// "3" string decodes into an int field.
func Decode(st ports.ModuleState, out any) error {
	raw := make(map[string]any)
	for k, v := range st.Snapshot() {
		raw[k] = v.Interface()
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("build state decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	return nil
}

// ValuesFromMap converts plain Go values into state values.
func ValuesFromMap(in map[string]any) (map[string]domain.Value, error) {
	out := make(map[string]domain.Value, len(in))
	for k, raw := range in {
		v, err := domain.ValueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func sortedKeys(m map[string]domain.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
