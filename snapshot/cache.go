// Package snapshot caches serialized terminal screen state so a session that
// is closed and reopened can restore its display without replaying history.
package snapshot

import (
	"sync"
	"time"
)

// DefaultCapacity bounds the cache to a small number of recently closed
// sessions. A console rarely has more tabs than this open at once.
const DefaultCapacity = 12

// Snapshot is the serialized screen state of a single session.
type Snapshot struct {
	SessionID string
	Screen    string
	UpdatedAt time.Time
}

type entry struct {
	snap Snapshot
	seq  uint64 // insertion order, breaks UpdatedAt ties during eviction
}

// Cache is a bounded map from session id to its most recent Snapshot.
// Eviction removes the oldest entries by UpdatedAt, oldest first, with
// insertion order breaking ties. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*entry
	seq      uint64
}

// NewCache creates a cache bounded to capacity entries. A capacity of zero
// or less uses DefaultCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*entry),
	}
}

// Get returns the snapshot for a session id, if one is cached.
func (c *Cache) Get(sessionID string) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[sessionID]
	if !ok {
		return Snapshot{}, false
	}
	return e.snap, true
}

// Set stores or overwrites the snapshot for a session id, evicting the
// oldest entries when the cache exceeds its capacity.
func (c *Cache) Set(sessionID, screen string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.entries[sessionID] = &entry{
		snap: Snapshot{
			SessionID: sessionID,
			Screen:    screen,
			UpdatedAt: time.Now(),
		},
		seq: c.seq,
	}

	for len(c.entries) > c.capacity {
		c.evictOldest()
	}
}

// evictOldest removes the entry with the smallest (UpdatedAt, seq) pair.
// Caller must hold c.mu.
func (c *Cache) evictOldest() {
	var oldestID string
	var oldest *entry
	for id, e := range c.entries {
		if oldest == nil ||
			e.snap.UpdatedAt.Before(oldest.snap.UpdatedAt) ||
			(e.snap.UpdatedAt.Equal(oldest.snap.UpdatedAt) && e.seq < oldest.seq) {
			oldestID = id
			oldest = e
		}
	}
	if oldest != nil {
		delete(c.entries, oldestID)
	}
}

// Delete removes the snapshot for a session id, if present.
func (c *Cache) Delete(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sessionID)
}

// Clear removes all cached snapshots.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Len returns the number of cached snapshots.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
