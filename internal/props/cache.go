// Package props holds the daemon's latest-known-value store for observed
// player properties.
package props

import "mpvstatusd/internal/mpv"

// Cache maps observed property names to their last known values. Entries
// appear lazily on the first event for a property and are only removed by
// Reset, which runs at session start and on disconnect so values from two
// connection epochs never mix. Bounded by the fixed set of configured
// properties, so no eviction is needed.
type Cache struct {
	values map[string]mpv.Value
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{values: make(map[string]mpv.Value)}
}

// Set overwrites the stored value for name.
func (c *Cache) Set(name string, v mpv.Value) {
	c.values[name] = v
}

// Get returns the stored value for name, or an unset value.
func (c *Cache) Get(name string) mpv.Value {
	return c.values[name]
}

// Reset clears all entries.
func (c *Cache) Reset() {
	clear(c.values)
}

// Snapshot returns a copy of the current entries, stringified for display.
func (c *Cache) Snapshot() map[string]string {
	out := make(map[string]string, len(c.values))
	for name, v := range c.values {
		out[name] = v.String()
	}
	return out
}
