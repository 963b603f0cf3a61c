package log

import (
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{" Info ", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevels(t *testing.T) {
	var got []string
	for l := range Levels() {
		got = append(got, l)
		if ParseLevel(l).String() != l {
			t.Errorf("level %q does not round-trip", l)
		}
	}

	if len(got) != 5 || got[0] != "trace" || got[4] != "error" {
		t.Errorf("Levels() = %v", got)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"json":  FormatJSON,
		"TEXT":  FormatText,
		"":      DefaultFormat,
		"plain": DefaultFormat,
	} {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}

	for f := range Formats() {
		if ParseFormat(f).String() != f {
			t.Errorf("format %q does not round-trip", f)
		}
	}
}

func TestMakeFormatTime(t *testing.T) {
	at := time.Date(2024, 3, 9, 15, 4, 5, 123456789, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T15:04:05Z"},
		{"rfc-3339-nano", "2024-03-09T15:04:05.123456789Z"},
		{"Kitchen", "3:04PM"},
		{"ms", "Mar  9 15:04:05.123"},
		{"2006", "2024"},
		{"none", ""},
		{"", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		if got := makeFormatTime(tt.layout)(at); got != tt.want {
			t.Errorf("layout %q = %q, want %q", tt.layout, got, tt.want)
		}
	}
}
