package cache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.LayoutKey("acme", "north"); got != "layout:acme:north" {
		t.Errorf("LayoutKey = %q", got)
	}
	if got := k.LayoutPrefix("acme"); got != "layout:acme:" {
		t.Errorf("LayoutPrefix = %q", got)
	}
	if got := k.LayoutPrefix(""); got != "layout:" {
		t.Errorf("LayoutPrefix(\"\") = %q", got)
	}
	if !strings.HasPrefix(k.LayoutKey("acme", "north"), k.LayoutPrefix("acme")) {
		t.Error("LayoutKey should start with LayoutPrefix")
	}

	// ExportKey should include options in hash
	ek1 := k.ExportKey("rev1", ExportKeyOpts{Format: "svg", Padding: 10})
	ek2 := k.ExportKey("rev1", ExportKeyOpts{Format: "png", Padding: 10})
	ek3 := k.ExportKey("rev2", ExportKeyOpts{Format: "svg", Padding: 10})
	if ek1 == ek2 || ek1 == ek3 {
		t.Error("Different revisions or options should produce different keys")
	}
	if ek1 != k.ExportKey("rev1", ExportKeyOpts{Format: "svg", Padding: 10}) {
		t.Error("ExportKey should be deterministic")
	}
	if !strings.HasPrefix(ek1, "export:") {
		t.Errorf("ExportKey unexpected: %s", ek1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	if got := scoped.LayoutKey("acme", "north"); got != "staging:layout:acme:north" {
		t.Errorf("ScopedKeyer LayoutKey unexpected: %s", got)
	}
	if got := scoped.LayoutPrefix("acme"); got != "staging:layout:acme:" {
		t.Errorf("ScopedKeyer LayoutPrefix unexpected: %s", got)
	}
	exportKey := scoped.ExportKey("rev", ExportKeyOpts{})
	if !strings.HasPrefix(exportKey, "staging:export:") {
		t.Errorf("ScopedKeyer ExportKey should be prefixed: %s", exportKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.LayoutKey("org", "name")
	if key != "prefix:layout:org:name" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

// exercise runs the shared Cache and Lister contract against a backend.
func exercise(t *testing.T, c interface {
	Cache
	Lister
}) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "layout:acme:north"); err != nil || hit {
		t.Fatalf("Get on empty store = hit %v, err %v", hit, err)
	}

	entries := map[string]string{
		"layout:acme:north": `{"name":"north"}`,
		"layout:acme:south": `{"name":"south"}`,
		"layout:globex:one": `{"name":"one"}`,
	}
	for k, v := range entries {
		if err := c.Set(ctx, k, []byte(v), LayoutTTL); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}

	data, hit, err := c.Get(ctx, "layout:acme:north")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != entries["layout:acme:north"] {
		t.Errorf("Get = %s", data)
	}

	keys, err := c.List(ctx, "layout:acme:")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]string{"layout:acme:north", "layout:acme:south"}, keys); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	if err := c.Set(ctx, "layout:acme:north", []byte("v2"), 0); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, _, _ = c.Get(ctx, "layout:acme:north")
	if string(data) != "v2" {
		t.Errorf("overwrite not visible: %s", data)
	}

	if err := c.Delete(ctx, "layout:acme:north"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "layout:acme:north"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:acme:north"); hit {
		t.Error("deleted key should miss")
	}

	all, err := c.List(ctx, "")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if diff := cmp.Diff([]string{"layout:acme:south", "layout:globex:one"}, all); diff != "" {
		t.Errorf("List all mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	exercise(t, c)
}

func TestMemoryCacheCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'x'

	got, _, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored data aliased caller slice: %s", got)
	}
	got[0] = 'y'
	again, _, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("returned data aliased stored slice: %s", again)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "export:a", []byte("svg"), time.Minute)
	_ = c.Set(ctx, "export:b", []byte("svg"), 0)

	if _, hit, _ := c.Get(ctx, "export:a"); !hit {
		t.Fatal("entry should be live before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "export:a"); hit {
		t.Error("entry should expire after ttl")
	}
	keys, _ := c.List(ctx, "export:")
	if diff := cmp.Diff([]string{"export:b"}, keys); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	exercise(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "export:a", []byte("png"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	now = now.Add(2 * time.Hour)
	if _, hit, _ := c.Get(ctx, "export:a"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("export:a")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := os.WriteFile(c.path("k"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry should be a miss, got hit %v err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	keys, _ := c.List(ctx, "")
	if len(keys) != 0 {
		t.Errorf("keys after Clear = %v", keys)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := networkError("redis get", cause)
	if !IsRetryable(err) {
		t.Error("network errors should be retryable")
	}
	if !errors.Is(err, ErrNetwork) || !errors.Is(err, cause) {
		t.Errorf("network error should wrap ErrNetwork and the cause: %v", err)
	}
}
