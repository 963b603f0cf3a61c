package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestHistory_AddAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"x + 1", modeEval},
		{"names", modeCtrl},
		{"  ", modeEval},
		{"y", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) failed: %v", e.Line, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if want := "E:x + 1\nC:names\nE:y\n"; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Len() != 3 {
		t.Fatalf("Len = %d, want 3", loaded.Len())
	}

	e, err := loaded.Entry(1)
	if err != nil {
		t.Fatal(err)
	}

	if e != (HistoryEntry{"names", modeCtrl}) {
		t.Errorf("Entry(1) = %+v", e)
	}
}

func TestHistory_Dedupe(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "b", "a"} {
		if err := h.Add(line, modeEval); err != nil {
			t.Fatal(err)
		}
	}

	got := h.Entries()
	if len(got) != 2 || got[0].Line != "b" || got[1].Line != "a" {
		t.Errorf("Entries = %+v, want [b a]", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if want := "E:b\nE:a\n"; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestHistory_SameLineDifferentMode(t *testing.T) {
	h := NewHistory("")

	_ = h.Add("names", modeEval)
	_ = h.Add("names", modeCtrl)

	if h.Len() != 2 {
		t.Errorf("Len = %d, want 2", h.Len())
	}
}

func TestHistory_EntryOutOfBounds(t *testing.T) {
	h := NewHistory("")

	for _, i := range []int{-1, 0} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d): expected ErrOutOfBounds, got %v", i, err)
		}
	}
}

func TestDecodeEntry_Unprefixed(t *testing.T) {
	if e := decodeEntry("x"); e != (HistoryEntry{"x", modeEval}) {
		t.Errorf("decodeEntry = %+v", e)
	}
}
