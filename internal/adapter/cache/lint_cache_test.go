package cache

import (
	"path/filepath"
	"testing"
)

func TestLintCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	c, err := OpenLintCache(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.IsClean("a.go", "fp1") {
		t.Error("expected miss on empty cache")
	}
	if err := c.MarkClean("a.go", "fp1"); err != nil {
		t.Fatal(err)
	}
	if !c.IsClean("a.go", "fp1") {
		t.Error("expected hit after MarkClean")
	}
	if c.IsClean("a.go", "fp2") {
		t.Error("expected miss for a different fingerprint")
	}
	if err := c.MarkClean("b.go", "fp1"); err != nil {
		t.Fatal(err)
	}
	if n := c.Len(); n != 2 {
		t.Errorf("expected 2 entries, got %d", n)
	}

	if err := c.Forget("a.go"); err != nil {
		t.Fatal(err)
	}
	if c.IsClean("a.go", "fp1") {
		t.Error("expected miss after Forget")
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	// entries survive reopening
	c, err = OpenLintCache(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if !c.IsClean("b.go", "fp1") {
		t.Error("expected entry to persist across reopen")
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if n := c.Len(); n != 0 {
		t.Errorf("expected empty cache after Clear, got %d", n)
	}
}
