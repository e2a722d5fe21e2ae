package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var errPermanent = errors.New("permanent")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "doc:1", []byte("<mxGraphModel/>"), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if data, hit, err := c.Get(ctx, "doc:1"); hit || data != nil || err != nil {
		t.Errorf("Get() = %q, %v, %v; want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "doc:1"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "doc:1"); hit || err != nil {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "doc:1", []byte("<mxGraphModel/>"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "doc:1")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != "<mxGraphModel/>" {
		t.Errorf("Get = %q", data)
	}

	if err := c.Delete(ctx, "doc:1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "doc:1"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "doc:1"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned as hit")
	}

	// zero TTL never expires
	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero-TTL entry missing")
	}
}

func TestFileCache_EntryFormat(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	doc := "<mxGraphModel dx=\"1000\">\n  <root></root>\n</mxGraphModel>"
	if err := c.Set(context.Background(), "doc:1", []byte(doc), 0); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(c.(*FileCache).path("doc:1"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "idef0-cache 0\n" + doc; string(raw) != want {
		t.Errorf("entry file = %q, want %q", raw, want)
	}
}

func TestFileCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)

	path := fc.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry was not removed")
	}
}

func TestClearDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := ClearDir(dir)
	if err != nil {
		t.Fatalf("ClearDir: %v", err)
	}
	if n != 3 {
		t.Errorf("ClearDir removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries left in cache dir", len(entries))
	}

	if n, err := ClearDir(filepath.Join(dir, "missing")); n != 0 || err != nil {
		t.Errorf("ClearDir(missing) = %d, %v", n, err)
	}
}

func TestStatDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "doc:a", []byte("<a/>"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "doc:b", []byte("<b/>"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	st, err := StatDir(dir)
	if err != nil {
		t.Fatalf("StatDir() error = %v", err)
	}
	if st.Entries != 2 || st.Expired != 1 || st.Bytes == 0 {
		t.Errorf("StatDir() = %+v, want 2 entries with 1 expired", st)
	}

	if st, err := StatDir(filepath.Join(dir, "missing")); err != nil || st.Entries != 0 {
		t.Errorf("StatDir(missing) = %+v, %v", st, err)
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

	dk1 := k.DocumentKey("hash123", DocumentKeyOpts{Indent: "  "})
	dk2 := k.DocumentKey("hash123", DocumentKeyOpts{Indent: "  "})
	if dk1 != dk2 {
		t.Error("DocumentKey should be stable")
	}
	if !strings.HasPrefix(dk1, "doc:") {
		t.Errorf("DocumentKey prefix: %s", dk1)
	}
	if dk3 := k.DocumentKey("hash123", DocumentKeyOpts{Compact: true}); dk1 == dk3 {
		t.Error("Different DocumentKeyOpts should produce different keys")
	}
	if dk4 := k.DocumentKey("hash456", DocumentKeyOpts{Indent: "  "}); dk1 == dk4 {
		t.Error("Different diagram hashes should produce different keys")
	}

	pk1 := k.PreviewKey("hash123", PreviewKeyOpts{Format: "svg"})
	pk2 := k.PreviewKey("hash123", PreviewKeyOpts{Format: "png"})
	if pk1 == pk2 {
		t.Error("Different PreviewKeyOpts should produce different keys")
	}

	if vk := k.VariantKey("file", "simple"); vk != "variant:file:simple" {
		t.Errorf("VariantKey unexpected: %s", vk)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "idef0:")

	if vk := scoped.VariantKey("mongo", "complex"); vk != "idef0:variant:mongo:complex" {
		t.Errorf("ScopedKeyer VariantKey unexpected: %s", vk)
	}
	dk := scoped.DocumentKey("h", DocumentKeyOpts{})
	if !strings.HasPrefix(dk, "idef0:doc:") {
		t.Errorf("ScopedKeyer DocumentKey should be prefixed: %s", dk)
	}
	if pk := scoped.PreviewKey("h", PreviewKeyOpts{}); !strings.HasPrefix(pk, "idef0:preview:") {
		t.Errorf("ScopedKeyer PreviewKey should be prefixed: %s", pk)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.VariantKey("file", "empty")
	if key != "prefix:variant:file:empty" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}

	err := fmt.Errorf("ping redis: %w", Retryable(ErrNetwork))
	if !IsRetryable(err) {
		t.Error("IsRetryable() = false through fmt.Errorf wrapping")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("errors.Is(err, ErrNetwork) = false")
	}
	if got, want := Retryable(ErrNetwork).Error(), ErrNetwork.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if IsRetryable(errPermanent) {
		t.Error("IsRetryable(errPermanent) = true")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := RetryDelay
	RetryDelay = time.Millisecond
	defer func() { RetryDelay = old }()

	tests := []struct {
		name      string
		failures  int
		failWith  error
		wantErr   error
		wantCalls int
	}{
		{"first try", 0, nil, nil, 1},
		{"permanent error", 5, errPermanent, errPermanent, 1},
		{"recovers", 1, Retryable(ErrNetwork), nil, 2},
		{"exhausted", 5, Retryable(ErrNetwork), ErrNetwork, RetryAttempts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			})
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("RetryWithBackoff() error = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("RetryWithBackoff() error = %v, want context.Canceled", err)
	}
}
