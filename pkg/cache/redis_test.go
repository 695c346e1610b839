package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache(t *testing.T) {
	c, _ := newTestRedis(t)
	exercise(t, c)
}

func TestRedisCacheTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	if err := c.Set(ctx, "export:a", []byte("svg"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL("export:a"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}
	mr.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "export:a"); hit {
		t.Error("entry should expire")
	}
}

func TestRedisCacheListEscapesGlob(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedis(t)

	_ = c.Set(ctx, "layout:a*:x", []byte("1"), 0)
	_ = c.Set(ctx, "layout:ab:x", []byte("2"), 0)

	keys, err := c.List(ctx, "layout:a*:")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 1 || keys[0] != "layout:a*:x" {
		t.Errorf("List = %v, want only the literal match", keys)
	}
}

func TestRedisCacheUnavailable(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)
	mr.Close()

	_, _, err := c.Get(ctx, "k")
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	if !IsRetryable(err) {
		t.Errorf("connection failure should be retryable: %v", err)
	}
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := DialRedis(context.Background(), mr.Addr())
	if err != nil {
		t.Fatalf("DialRedis: %v", err)
	}
	defer c.Close()
}
