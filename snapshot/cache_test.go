package snapshot

import (
	"fmt"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := NewCache(0)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get returned a snapshot for an unknown session")
	}

	c.Set("a", "screen a")
	snap, ok := c.Get("a")
	if !ok {
		t.Fatal("stored snapshot not found")
	}
	if snap.SessionID != "a" || snap.Screen != "screen a" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped")
	}

	// Overwrite replaces, never duplicates.
	c.Set("a", "screen a v2")
	if c.Len() != 1 {
		t.Errorf("overwrite grew the cache to %d", c.Len())
	}
	snap, _ = c.Get("a")
	if snap.Screen != "screen a v2" {
		t.Errorf("overwrite kept stale screen %q", snap.Screen)
	}
}

func TestCacheEvictsOldestBeyondCapacity(t *testing.T) {
	c := NewCache(12)

	for i := range 13 {
		c.Set(fmt.Sprintf("session-%d", i), "screen")
	}

	if c.Len() != 12 {
		t.Fatalf("expected 12 entries after eviction, got %d", c.Len())
	}
	if _, ok := c.Get("session-0"); ok {
		t.Error("oldest entry survived eviction")
	}
	for i := 1; i < 13; i++ {
		if _, ok := c.Get(fmt.Sprintf("session-%d", i)); !ok {
			t.Errorf("session-%d evicted prematurely", i)
		}
	}
}

func TestCacheEvictionTiesBrokenByInsertionOrder(t *testing.T) {
	c := NewCache(2)

	// Same clock tick is likely for back-to-back sets; the insertion
	// sequence must still decide who goes first.
	c.Set("first", "1")
	c.Set("second", "2")
	c.Set("third", "3")

	if _, ok := c.Get("first"); ok {
		t.Error("expected the earliest insertion to be evicted")
	}
	if _, ok := c.Get("second"); !ok {
		t.Error("second entry evicted out of order")
	}
	if _, ok := c.Get("third"); !ok {
		t.Error("newest entry evicted")
	}
}

func TestCacheRefreshProtectsFromEviction(t *testing.T) {
	c := NewCache(2)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "1 again") // refresh makes "b" the oldest
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("refreshed entry evicted instead of the stale one")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently refreshed entry was evicted")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := NewCache(0)
	c.Set("a", "1")
	c.Set("b", "2")

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted entry still present")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Clear left %d entries", c.Len())
	}
}
