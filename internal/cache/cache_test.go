package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFingerprint_DeterministicAndShort(t *testing.T) {
	a := Fingerprint([]byte(`[{"title":"x"}]`), "v7.0-individual-pricing")
	b := Fingerprint([]byte(`[{"title":"x"}]`), "v7.0-individual-pricing")
	if a != b {
		t.Errorf("same input produced %s and %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(a))
	}
}

func TestFingerprint_PromptVersionChangesKey(t *testing.T) {
	payload := []byte(`[{"title":"x"}]`)
	a := Fingerprint(payload, "v7.0-individual-pricing")
	b := Fingerprint(payload, "v8.0-individual-pricing")
	if a == b {
		t.Error("prompt version bump did not change the fingerprint")
	}
}

func testCacheRoundTrip(t *testing.T, c Cache) {
	t.Helper()

	if _, found := c.Get("missing"); found {
		t.Error("Get reported a hit for a missing key")
	}

	value := []byte(`[{"category":"PLUMBING"}]`)
	if err := c.Set("abc123", value); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get("abc123")
	if !found {
		t.Fatal("Get missed a stored key")
	}
	if !bytes.Equal(got, value) {
		t.Errorf("Get returned %s, want %s", got, value)
	}

	if err := c.Delete("abc123"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("abc123"); found {
		t.Error("key survived Delete")
	}
}

func TestMemoryCache(t *testing.T) {
	testCacheRoundTrip(t, NewMemoryCache())
}

func TestDiskCache(t *testing.T) {
	testCacheRoundTrip(t, NewDiskCache(t.TempDir()))
}

func TestLayeredCache(t *testing.T) {
	testCacheRoundTrip(t, NewLayeredCache(t.TempDir()))
}

func TestDiskCache_FilePerFingerprint(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir)

	if err := c.Set("deadbeef00112233", []byte("{}")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "deadbeef00112233.json")); err != nil {
		t.Errorf("expected blob file on disk: %v", err)
	}
}

func TestDiskCache_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	if err := NewDiskCache(dir).Set("key1", []byte("persisted")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := NewDiskCache(dir).Get("key1")
	if !found {
		t.Fatal("entry lost after reopen")
	}
	if string(got) != "persisted" {
		t.Errorf("got %s", got)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// Seed the disk layer directly, simulating a previous run.
	if err := NewDiskCache(dir).Set("shared", []byte("from disk")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	layered := NewLayeredCache(dir)
	got, found := layered.Get("shared")
	if !found || string(got) != "from disk" {
		t.Fatalf("layered cache missed disk entry")
	}

	// Remove the disk file; a promoted entry still answers from memory.
	if err := os.Remove(filepath.Join(dir, "shared.json")); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, found := layered.Get("shared"); !found {
		t.Error("promotion to memory layer did not happen")
	}
}

func TestCacheClear(t *testing.T) {
	c := NewLayeredCache(t.TempDir())
	_ = c.Set("a", []byte("1"))
	_ = c.Set("b", []byte("2"))

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("entry survived Clear")
	}
}
