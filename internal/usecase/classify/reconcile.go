package classify

import "github.com/kailas-cloud/nearbite/internal/domain"

// Reconcile replaces every category entry with the full record of the same name from universe.
// Entries that carry no name, or name a venue not in universe, are dropped.
// A label whose entries all drop is kept with an empty list.
func Reconcile[T any](cats domain.CategoryMap, universe map[string]T) map[string][]T {
	out := make(map[string][]T, len(cats))
	for label, entries := range cats {
		records := make([]T, 0, len(entries))
		for _, e := range entries {
			name, ok := e.Name()
			if !ok {
				continue
			}
			if rec, found := universe[name]; found {
				records = append(records, rec)
			}
		}
		out[label] = records
	}
	return out
}
