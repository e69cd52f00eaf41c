package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "roomreviews/internal/adapters/redis"
)

func newTestCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0), mr
}

func TestCache_RoundTripBytes(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	payload := []byte(`{"reviews":[{"id":"1","rating":5}]}`)
	if err := cache.Set(ctx, "page:h:1:", payload, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got []byte
	ok, err := cache.Get(ctx, "page:h:1:", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mangled: %s", got)
	}
}

func TestCache_MissAndDel(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	var got []byte
	ok, err := cache.Get(ctx, "page:h:1:", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss")
	}

	_ = cache.Set(ctx, "page:h:1:", []byte("x"), time.Minute)
	if err := cache.Del(ctx, "page:h:1:"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := cache.Get(ctx, "page:h:1:", &got); ok {
		t.Fatalf("key survived del")
	}
}

func TestCache_TTLExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	_ = cache.Set(ctx, "page:h:2:", []byte("y"), 30*time.Second)
	mr.FastForward(time.Minute)

	var got []byte
	if ok, _ := cache.Get(ctx, "page:h:2:", &got); ok {
		t.Fatalf("key survived its ttl")
	}
}

func TestCache_Ping(t *testing.T) {
	cache, mr := newTestCache(t)
	if err := cache.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	mr.Close()
	if err := cache.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping failure after close")
	}
}
