package cache

import (
	"context"
	"testing"
	"time"
)

type entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	var got []entry
	found, err := c.Get(ctx, "products:all", &got)
	if err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	want := []entry{{"PROD-2001", "Valve spring"}, {"PROD-2002", "Clutch spring"}}
	if err := c.Set(ctx, "products:all", want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	found, err = c.Get(ctx, "products:all", &got)
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if len(got) != 2 || got[1].Name != "Clutch spring" {
		t.Errorf("unexpected value %+v", got)
	}

	if err := c.Delete(ctx, "products:all", "missing"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	found, _ = c.Get(ctx, "products:all", &got)
	if found {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCacheExpires(t *testing.T) {
	c := NewMemory(time.Second)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var s string
	if found, _ := c.Get(ctx, "k", &s); !found || s != "v" {
		t.Fatalf("expected fresh hit, got %v %q", found, s)
	}

	now = now.Add(2 * time.Second)
	if found, _ := c.Get(ctx, "k", &s); found {
		t.Error("expected expired entry to miss")
	}
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewMemory(0)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()
	_ = c.Set(ctx, "k", 1)
	now = now.Add(24 * time.Hour)
	var n int
	if found, _ := c.Get(ctx, "k", &n); !found || n != 1 {
		t.Errorf("expected persistent entry, got %v %d", found, n)
	}
}

func TestNewRedisFailsWithoutServer(t *testing.T) {
	if testing.Short() {
		t.Skip("dials the network")
	}
	_, err := NewRedis(RedisOptions{Addr: "127.0.0.1:1", TTL: time.Minute})
	if err == nil {
		t.Fatal("expected connection error")
	}
}

var _ Cache = (*RedisCache)(nil)
var _ Cache = (*MemoryCache)(nil)
