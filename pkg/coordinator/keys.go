package coordinator

import (
	"sort"

	"github.com/aretw0/dataflow/pkg/domain"
)

func sortedKeys(m map[string]domain.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
