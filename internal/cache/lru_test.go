package cache

import (
	"testing"
	"time"
)

func TestLRUEvictsOldest(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("a should be present")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("recently used entry must survive eviction")
	}
	if c.Size() != 2 {
		t.Fatalf("size %d, want 2", c.Size())
	}
}

func TestLRUTTLExpiry(t *testing.T) {
	// Negative TTL makes every entry already expired.
	c := NewLRUCache[string](10, -time.Second)
	c.Set("k", "v")

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expired entry must not be served")
	}
	if c.Size() != 0 {
		t.Fatalf("expired entry should be dropped on access")
	}
}

func TestLRUCleanExpired(t *testing.T) {
	c := NewLRUCache[string](10, -time.Second)
	c.Set("a", "1")
	c.Set("b", "2")

	if removed := c.CleanExpired(); removed != 2 {
		t.Fatalf("removed %d, want 2", removed)
	}
	if c.Size() != 0 {
		t.Fatalf("size %d after cleanup", c.Size())
	}
}

func TestLRUDeleteAndOverwrite(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("k", 1)
	c.Set("k", 2)
	if v, ok := c.Get("k"); !ok || v != 2 {
		t.Fatalf("overwrite failed: %d %v", v, ok)
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatalf("deleted key must be gone")
	}
}
