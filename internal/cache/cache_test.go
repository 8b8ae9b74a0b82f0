package cache

import (
	"testing"
	"time"
)

func TestCacheKey_NormalizesAddressVariants(t *testing.T) {
	a := CacheKey("1234 Wilshire Blvd, Los Angeles, CA")
	b := CacheKey("  1234  wilshire blvd,  los angeles, ca ")

	if a != b {
		t.Errorf("case/spacing variants produced different keys:\n%s\n%s", a, b)
	}
	if CacheKey("1234 Wilshire Blvd") == CacheKey("5678 Wilshire Blvd") {
		t.Error("distinct addresses must not collide")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	key := CacheKey("123 Main St")

	if _, found := c.Get(key); found {
		t.Fatal("unexpected hit on empty cache")
	}

	if err := c.Set(key, []byte("record"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, found := c.Get(key)
	if !found || string(val) != "record" {
		t.Fatalf("Get = (%q, %v), want (record, true)", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("hit after delete")
	}
}

func TestDiskCache_ExpiredEntryMisses(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := CacheKey("200 Elm St")

	if err := c.Set(key, []byte("stale"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expired entry should miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	key := CacheKey("77 Harbor Apt 9, San Diego, CA")

	// Seed disk directly, then read through a fresh layered cache
	disk := NewDiskCache(dir, time.Minute)
	if err := disk.Set(key, []byte("record"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := layered.Get(key)
	if !found || string(val) != "record" {
		t.Fatalf("Get = (%q, %v), want disk hit", val, found)
	}

	// Now present in the memory layer too
	if _, found := layered.memory.Get(key); !found {
		t.Error("disk hit was not promoted to memory")
	}
}
