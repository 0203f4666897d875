package load

import "sort"

// Fixture is one lighting fixture as read from the model. ApparentLoad is
// in the model's internal units.
type Fixture struct {
	Key          Key
	ApparentLoad float64
}

// Table holds the summed apparent load per Key. It is built once by
// Aggregate and is read-only afterwards, so concurrent lookups are safe.
type Table struct {
	totals map[Key]float64
}

// Aggregate sums fixture loads by Key. Fixtures with any unassigned key
// component are skipped since they cannot be routed to a switch group.
func Aggregate(fixtures []Fixture) Table {
	totals := make(map[Key]float64)
	for _, f := range fixtures {
		if !f.Key.Routable() {
			continue
		}
		totals[f.Key] += f.ApparentLoad
	}
	return Table{totals}
}

// Len returns the number of aggregated groups.
func (t Table) Len() int {
	return len(t.totals)
}

// Empty reports whether the table holds no groups.
func (t Table) Empty() bool {
	return len(t.totals) == 0
}

// Lookup returns the total for an exact key match.
func (t Table) Lookup(k Key) (float64, bool) {
	total, ok := t.totals[k]
	return total, ok
}

// Keys returns the aggregated keys in lexical order.
func (t Table) Keys() []Key {
	keys := make([]Key, 0, len(t.totals))
	for k := range t.totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
