package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestStorePutAndLookup(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	src := writeFile(t, t.TempDir(), "photo.jpg", "image-bytes")
	cached, err := store.Put("https://example.com/photo.jpg", src)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if filepath.Ext(cached) != ".jpg" {
		t.Errorf("cached path = %q, want .jpg extension", cached)
	}

	got, ok := store.Lookup("https://example.com/photo.jpg")
	if !ok || got != cached {
		t.Errorf("Lookup = (%q, %v), want (%q, true)", got, ok, cached)
	}

	data, err := os.ReadFile(got)
	if err != nil || string(data) != "image-bytes" {
		t.Errorf("cached content = %q, %v", data, err)
	}
}

func TestStoreLookupMiss(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, ok := store.Lookup("https://example.com/unknown.jpg"); ok {
		t.Error("expected miss")
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	src := writeFile(t, t.TempDir(), "a.png", "png")
	if _, err := store.Put("https://example.com/a.png", src); err != nil {
		t.Fatalf("Put: %v", err)
	}

	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, ok := reopened.Lookup("https://example.com/a.png"); !ok {
		t.Error("entry lost across reopen")
	}
}

func TestStoreLookupDropsStaleEntries(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	src := writeFile(t, t.TempDir(), "b.png", "png")
	cached, err := store.Put("https://example.com/b.png", src)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	os.Remove(cached)
	if _, ok := store.Lookup("https://example.com/b.png"); ok {
		t.Error("stale entry should miss after file removal")
	}
}

func TestStorePrune(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	src := writeFile(t, t.TempDir(), "keep.png", "png")
	kept, err := store.Put("https://example.com/keep.png", src)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	orphan := writeFile(t, dir, "orphan.png", "png")

	if err := store.Prune(); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("kept file removed: %v", err)
	}
	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Errorf("orphan not removed: %v", err)
	}
}

func TestKeyStable(t *testing.T) {
	a := Key("https://example.com/a.png")
	b := Key("https://example.com/a.png")
	c := Key("https://example.com/b.png")
	if a != b {
		t.Error("key not deterministic")
	}
	if a == c {
		t.Error("distinct sources collide")
	}
	if len(a) != 32 {
		t.Errorf("key length = %d", len(a))
	}
}
