package store

import "sync"

// Cache maps store identifiers to records for the current search
// generation. Every search or chat map update replaces the mapping
// wholesale; a chat-suggested single store is added without clearing,
// so its card stays clickable next to the last list.
//
// Lookup misses are not errors: a click can race a replacement that
// already dropped the referenced generation, and callers treat that as
// a no-op.
type Cache struct {
	mu         sync.RWMutex
	records    map[string]Record
	generation uint64
}

// NewCache returns an empty cache at generation zero.
func NewCache() *Cache {
	return &Cache{records: make(map[string]Record)}
}

// ReplaceAll discards the prior mapping and installs the given records
// in one step. Readers never observe a partially filled generation.
func (c *Cache) ReplaceAll(records []Record) {
	fresh := make(map[string]Record, len(records))
	for _, r := range records {
		fresh[r.ID] = r
	}
	c.mu.Lock()
	c.records = fresh
	c.generation++
	c.mu.Unlock()
}

// Add inserts or overwrites a single record without touching the rest
// of the current generation.
func (c *Cache) Add(r Record) {
	c.mu.Lock()
	c.records[r.ID] = r
	c.mu.Unlock()
}

// Lookup resolves an identifier against the current generation. The
// second result reports whether the record exists; callers must not
// treat a miss as a failure.
func (c *Cache) Lookup(id string) (Record, bool) {
	c.mu.RLock()
	r, ok := c.records[id]
	c.mu.RUnlock()
	return r, ok
}

// Len reports the size of the current generation.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Generation reports how many wholesale replacements have happened.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}
