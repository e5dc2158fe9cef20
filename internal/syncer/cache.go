package syncer

import (
	"sync"

	"github.com/Fred49680/PDC-sub001/internal/repository"
)

// Cache is the single authoritative in-memory view of one data set. Local
// mutations apply optimistically before the store write; confirmed changes
// from the notification feed merge in by primary key.
type Cache[T any] struct {
	mu      sync.RWMutex
	state   State
	records map[string]T
	id      func(T) string
}

// NewCache creates a cache in StateLoading. id extracts a record's primary key.
func NewCache[T any](id func(T) string) *Cache[T] {
	return &Cache[T]{
		state:   StateLoading,
		records: make(map[string]T),
		id:      id,
	}
}

// Load replaces the whole cache with the store's records and moves to Ready.
func (c *Cache[T]) Load(records []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = make(map[string]T, len(records))
	for _, r := range records {
		c.records[c.id(r)] = r
	}
	c.state = StateReady
}

func (c *Cache[T]) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Snapshot returns the current records in unspecified order.
func (c *Cache[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r)
	}
	return out
}

// Get returns the record with the given id.
func (c *Cache[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.records[id]
	return r, ok
}

// ApplyLocal upserts an optimistic local mutation. It runs synchronously on
// the edit path, before any write is issued, so readers never see the edit
// regress to the previous value while the write is in flight.
func (c *Cache[T]) ApplyLocal(record T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[c.id(record)] = record
}

// RemoveLocal drops a record optimistically.
func (c *Cache[T]) RemoveLocal(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, id)
}

// Merge applies one confirmed change event. Inserts add the record if absent;
// updates replace only while the identity still exists locally (a late
// confirmation for a record that was deleted meanwhile is discarded);
// deletes remove by id.
func (c *Cache[T]) Merge(op repository.Op, id string, record T, hasRecord bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch op {
	case repository.OpInsert:
		if hasRecord {
			if _, exists := c.records[id]; !exists {
				c.records[id] = record
			}
		}
	case repository.OpUpdate:
		if hasRecord {
			if _, exists := c.records[id]; exists {
				c.records[id] = record
			}
		}
	case repository.OpDelete:
		delete(c.records, id)
	}
}

// ReplaceWhere swaps every record matching pred for the given replacements,
// in one critical section. Consolidation reloads use it to re-read a whole
// grouping key instead of merging the delete/insert trickle.
func (c *Cache[T]) ReplaceWhere(pred func(T) bool, replacements []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, r := range c.records {
		if pred(r) {
			delete(c.records, id)
		}
	}
	for _, r := range replacements {
		c.records[c.id(r)] = r
	}
}

// Len returns the number of cached records.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
