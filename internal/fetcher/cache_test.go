package fetcher

import (
	"context"
	"testing"
	"time"
)

func TestResponseCacheEvictsOldestInserted(t *testing.T) {
	rc := NewResponseCache(time.Minute, 2, nil)

	rc.Set("a", "1")
	rc.Set("b", "2")
	rc.Set("a", "1b") // overwrite keeps a as the oldest
	rc.Set("c", "3")

	if _, ok := rc.Get("a"); ok {
		t.Error("a should have been evicted")
	}
	if v, ok := rc.Get("b"); !ok || v != "2" {
		t.Errorf("Get(b) = %q, %v", v, ok)
	}
	if v, ok := rc.Get("c"); !ok || v != "3" {
		t.Errorf("Get(c) = %q, %v", v, ok)
	}
	if rc.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rc.Len())
	}
}

func TestResponseCacheExpiredEntryIsEvicted(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rc := NewResponseCache(time.Second, 10, func() time.Time { return now })

	rc.Set("a", "1")
	now = now.Add(time.Second)
	if _, ok := rc.Get("a"); !ok {
		t.Fatal("entry at exactly its expiry should still be served")
	}

	now = now.Add(time.Millisecond)
	if _, ok := rc.Get("a"); ok {
		t.Fatal("expired entry served")
	}
	if rc.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after expired lookup", rc.Len())
	}
}

func TestRateLimiterBoundsConcurrency(t *testing.T) {
	rl := NewRateLimiter(1, 0)
	ctx := context.Background()

	release, err := rl.Acquire(ctx, "example.com")
	if err != nil {
		t.Fatal(err)
	}

	blocked, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := rl.Acquire(blocked, "example.com"); err == nil {
		t.Fatal("second acquire on the same host should block")
	}

	other, err := rl.Acquire(ctx, "other.example.com")
	if err != nil {
		t.Fatalf("other host should not be limited: %v", err)
	}
	other()

	release()
	again, err := rl.Acquire(ctx, "example.com")
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	again()
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 20; i++ {
		release, err := rl.Acquire(ctx, "example.com")
		if err != nil {
			t.Fatal(err)
		}
		defer release()
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("disabled limiter took %v", elapsed)
	}
}
