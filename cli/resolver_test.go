package cli

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quasi/pkg"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	v, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", name, err)
	}

	return v
}

func TestResolve(t *testing.T) {
	const src = `
log-level: debug
log:
  format: text
  pretty: false
max_depth: 50
rate: 0.5
source:
  - a.expr
  - 7
`

	r, err := resolve(t.Context())(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "text"},
		{"log-pretty", false},
		{"max-depth", "50"},
		{"rate", "0.5"},
		{"missing", nil},
	}

	for _, tt := range tests {
		if got := resolveFlag(t, r, tt.flag); got != tt.want {
			t.Errorf("%s = %#v, want %#v", tt.flag, got, tt.want)
		}
	}

	src2, ok := resolveFlag(t, r, "source").([]any)
	if !ok || !slices.Equal(src2, []any{"a.expr", "7"}) {
		t.Errorf("source = %#v", resolveFlag(t, r, "source"))
	}
}

func TestResolve_Empty(t *testing.T) {
	r, err := resolve(t.Context())(strings.NewReader(""))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if v := resolveFlag(t, r, "log-level"); v != nil {
		t.Errorf("log-level = %#v, want nil", v)
	}
}

func TestResolve_Invalid(t *testing.T) {
	_, err := resolve(t.Context())(strings.NewReader("key: [unterminated"))
	if !errors.Is(err, pkg.ErrReadConfig) {
		t.Errorf("expected pkg.ErrReadConfig, got %v", err)
	}
}

func TestResolve_Kong(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	err := os.WriteFile(path, []byte("name: file\ncount: 3\nlog:\n  level: warn\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	var cli struct {
		Name     string
		Count    int
		LogLevel string `name:"log-level"`
	}

	parser, err := kong.New(&cli, kong.Configuration(resolve(t.Context()), path))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--name", "flag"}); err != nil {
		t.Fatal(err)
	}

	if cli.Name != "flag" || cli.Count != 3 || cli.LogLevel != "warn" {
		t.Errorf("parsed %+v", cli)
	}
}
