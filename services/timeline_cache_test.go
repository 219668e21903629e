package services

import (
	"testing"
	"time"
)

func TestTimelineCacheTTL(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewTimelineCache(nil, 20*time.Second)
	cache.now = func() time.Time { return now }

	if _, ok := cache.Get(); ok {
		t.Fatal("empty cache reported a hit")
	}

	cache.Set([]byte("rendered timeline"))
	if b, ok := cache.Get(); !ok || string(b) != "rendered timeline" {
		t.Fatalf("fresh cache: got (%q, %v)", b, ok)
	}

	// Just inside the window it still serves the stale rendering.
	now = now.Add(19 * time.Second)
	if _, ok := cache.Get(); !ok {
		t.Error("cache expired before its TTL")
	}

	now = now.Add(time.Second)
	if _, ok := cache.Get(); ok {
		t.Error("cache served past its TTL")
	}
}

func TestTimelineCacheStalenessWindow(t *testing.T) {
	// Mutations do not invalidate the slot: a rendering captured before a
	// delete keeps serving until the TTL, and only an explicit clear forces
	// a refresh earlier.
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewTimelineCache(nil, 20*time.Second)
	cache.now = func() time.Time { return now }

	cache.Set([]byte(`{"items":["the only post"]}`))

	// The underlying post is deleted here; the cache knows nothing about it.
	now = now.Add(5 * time.Second)
	b, ok := cache.Get()
	if !ok || string(b) != `{"items":["the only post"]}` {
		t.Fatalf("within TTL: got (%q, %v), want the stale rendering", b, ok)
	}

	cache.Clear()
	if _, ok := cache.Get(); ok {
		t.Error("explicit clear did not drop the slot")
	}

	cache.Set([]byte(`{"items":[]}`))
	if b, _ := cache.Get(); string(b) != `{"items":[]}` {
		t.Errorf("refreshed rendering not served: %q", b)
	}
}

func TestTimelineCacheDefaultTTL(t *testing.T) {
	cache := NewTimelineCache(nil, 0)
	if cache.ttl != DefaultTimelineCacheTTL {
		t.Errorf("ttl = %v, want %v", cache.ttl, DefaultTimelineCacheTTL)
	}
}
