package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		input      string
		cursor     int
		word       string
		start, end int
	}{
		{"", 0, "", 0, 0},
		{"path.cat", 4, "path.cat", 0, 8},
		{"f(log-level, x)", 4, "log-level", 2, 11},
		{"a + bc", 6, "bc", 4, 6},
		{"a + bc", 3, "", 3, 3},
		{"!!name", 6, "name", 2, 6},
		{"x", 9, "x", 0, 1},
	}

	for _, tt := range tests {
		word, start, end := wordBounds(tt.input, tt.cursor)
		if word != tt.word || start != tt.start || end != tt.end {
			t.Errorf("wordBounds(%q, %d) = %q, %d, %d; want %q, %d, %d",
				tt.input, tt.cursor, word, start, end, tt.word, tt.start, tt.end)
		}
	}
}

func TestCandidates(t *testing.T) {
	names := []string{"alpha"}

	if got := candidates(modeCtrl, "na", 0, names); !slices.Equal(got, ctrlCommands) {
		t.Errorf("first command word: got %v", got)
	}

	if got := candidates(modeCtrl, "bind al", 5, names); !slices.Equal(got, names) {
		t.Errorf("command argument: got %v", got)
	}

	if got := candidates(modeEval, "al", 0, names); !slices.Equal(got, names) {
		t.Errorf("eval mode: got %v", got)
	}
}

func TestMatch(t *testing.T) {
	if m := match("", []string{"a"}); m != nil {
		t.Errorf("empty word matched %v", m)
	}

	m := match("pc", []string{"path.cat", "platform", "base"})
	if len(m) == 0 || m[0].Str != "path.cat" {
		t.Errorf("match(pc) = %v", m)
	}
}

func TestRenderCandidates(t *testing.T) {
	m := match("a", []string{"alpha", "beta", "gamma", "delta"})

	out := renderCandidates(m, -1, 80)
	for _, c := range m {
		if !strings.Contains(stripANSI(out), c.Str) {
			t.Errorf("render missing %q: %q", c.Str, out)
		}
	}

	narrow := stripANSI(renderCandidates(m, -1, 8))
	if !strings.HasSuffix(narrow, "…") {
		t.Errorf("narrow render not truncated: %q", narrow)
	}
}

func stripANSI(s string) string {
	var b strings.Builder

	esc := false

	for _, r := range s {
		switch {
		case r == 0x1b:
			esc = true
		case esc:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				esc = false
			}
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
