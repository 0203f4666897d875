package device

import "github.com/ohowland/beyond_core/internal/pkg/load"

// assign sets the channel load to the aggregated total of its key. A channel
// with an unassigned identity, or an empty table, gets zero without a lookup.
func assign(c *OutputChannel, table load.Table) {
	c.ApparentLoad = 0

	key := c.Key()
	if table.Empty() || !key.Routable() {
		return
	}

	if total, ok := table.Lookup(key); ok {
		c.ApparentLoad = total
	}
}
