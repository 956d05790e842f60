package aspects

import (
	"sort"

	"github.com/jinnzest/morphc/internal/model"
)

// FilterHints extracts the aspect-specific payload from a heterogeneous
// hint map, the Go equivalent of the registry's filter_<aspect> projection
// helper (SPEC_FULL.md §4.A).
func FilterHints[T any](m map[model.FuncName]Hint, assert func(Hint) (T, bool)) map[model.FuncName]T {
	out := make(map[model.FuncName]T, len(m))
	for name, h := range m {
		if v, ok := assert(h); ok {
			out[name] = v
		}
	}
	return out
}

// FilterAnalytics is the symmetric projection for analytics.
func FilterAnalytics[T any](m map[model.FuncName]Analytics, assert func(Analytics) (T, bool)) map[model.FuncName]T {
	out := make(map[model.FuncName]T, len(m))
	for name, a := range m {
		if v, ok := assert(a); ok {
			out[name] = v
		}
	}
	return out
}

// SortedKeys returns the keys of m in forward alphabetical order
// (SPEC_FULL.md §4.E).
func SortedKeys[V any](m map[model.FuncName]V) []model.FuncName {
	keys := make([]model.FuncName, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return model.Less(keys[i], keys[j]) })
	return keys
}
