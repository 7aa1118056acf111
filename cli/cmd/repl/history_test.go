package repl

import (
	"errors"
	"path/filepath"
	"testing"
)

// TestHistory_RoundTrip verifies entries persist across a reload.
func TestHistory_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file = %v, want nil", err)
	}

	for _, entry := range []string{"1 + 1", "upper(name)", "platform"} {
		if _, err := h.Write(entry); err != nil {
			t.Fatalf("Write(%q) error = %v", entry, err)
		}
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if reloaded.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", reloaded.Len())
	}

	line, err := reloaded.GetLine(1)
	if err != nil {
		t.Fatalf("GetLine(1) error = %v", err)
	}

	if line != "upper(name)" {
		t.Errorf("GetLine(1) = %q, want %q", line, "upper(name)")
	}
}

// TestHistory_Dedup verifies duplicate handling.
func TestHistory_Dedup(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	entries := []string{"a", "a", "b", "a"}
	for _, entry := range entries {
		if _, err := h.Write(entry); err != nil {
			t.Fatal(err)
		}
	}

	// Consecutive duplicate skipped; earlier duplicate moved to the end.
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}

	first, _ := h.GetLine(0)
	last, _ := h.GetLine(1)

	if first != "b" || last != "a" {
		t.Errorf("entries = [%q, %q], want [b, a]", first, last)
	}
}

// TestHistory_SkipsBlanks verifies empty writes are ignored.
func TestHistory_SkipsBlanks(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	if _, err := h.Write("  \t "); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

// TestHistory_Bounds verifies out-of-range access.
func TestHistory_Bounds(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	if _, err := h.GetLine(0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("GetLine(0) error = %v, want ErrOutOfBounds", err)
	}

	if _, err := h.GetLine(-1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("GetLine(-1) error = %v, want ErrOutOfBounds", err)
	}
}
