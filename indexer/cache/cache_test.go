package cache

import (
	"testing"
	"time"
)

func TestLRUEvictsOldest(t *testing.T) {
	var evicted []interface{}
	lru, err := NewLRU(2, func(key, _ interface{}) {
		evicted = append(evicted, key)
	})
	if err != nil {
		t.Fatal(err)
	}
	lru.Add("a", 1)
	lru.Add("b", 2)
	if gotEviction := lru.Add("c", 3); !gotEviction {
		t.Error("expected adding a third item to evict")
	}
	if lru.Contains("a") {
		t.Error("oldest entry should have been evicted")
	}
	if len(evicted) != 1 || evicted[0] != "a" {
		t.Errorf("eviction callback got %v, want [a]", evicted)
	}
}

func TestLRUGetRefreshesRecentness(t *testing.T) {
	lru, _ := NewLRU(2, nil)
	lru.Add("a", 1)
	lru.Add("b", 2)
	lru.Get("a")
	lru.Add("c", 3)
	if !lru.Contains("a") {
		t.Error("recently used entry should survive eviction")
	}
	if lru.Contains("b") {
		t.Error("least recently used entry should be evicted")
	}
}

func TestTTLExpiry(t *testing.T) {
	c, err := NewTTL(10, time.Millisecond*10)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	c.(*ttlCache).now = func() time.Time { return now }
	c.Add("k", "v")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatal("expected a fresh entry to be readable")
	}
	now = now.Add(time.Millisecond * 20)
	if _, ok := c.Get("k"); ok {
		t.Error("expected the entry to expire")
	}
	if c.Contains("k") {
		t.Error("expired entries should not be contained")
	}
}

func TestOptimisticConnectivity(t *testing.T) {
	c, err := NewOptimisticConnectivityCache()
	if err != nil {
		t.Fatal(err)
	}
	url := "https://tracker.example/"
	if !c.IsOk(url) {
		t.Error("an unseen url should be treated as reachable")
	}
	c.Invalidate(url)
	if c.IsOk(url) {
		t.Error("an invalidated url should be reported down")
	}
	c.ClearFailures()
	if !c.IsOk(url) {
		t.Error("clearing failures should restore the url")
	}
}
