package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type runner interface {
	Run(ctx context.Context) error
}

// run executes cmd with empty standard input and captured standard output.
func run(t *testing.T, ctx context.Context, cmd runner) (string, error) {
	t.Helper()

	var out bytes.Buffer

	err := cmd.Run(WithStdio(ctx, strings.NewReader(""), &out))

	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestWithSourceFiles_Dedupe(t *testing.T) {
	dir := t.TempDir()

	a := writeFile(t, dir, "a.expr", "a ")
	b := writeFile(t, dir, "b.expr", "b ")

	link := filepath.Join(dir, "link.expr")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	ctx := WithStdio(t.Context(), strings.NewReader("stdin"), nil)
	ctx = WithSourceFiles(ctx, []string{"-", a, link, b, "-", filepath.Join(dir, "missing")})

	src := sourceFilesFrom(ctx)
	if src == nil {
		t.Fatal("no source files")
	}

	paths := src.Paths()
	if len(paths) != 3 || paths[2] != stdinSource {
		t.Errorf("Paths = %v", paths)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "a b stdin" {
		t.Errorf("content = %q, want %q", got, "a b stdin")
	}
}

func TestWithSourceFiles_None(t *testing.T) {
	ctx := WithSourceFiles(t.Context(), []string{filepath.Join(t.TempDir(), "missing")})
	if sourceFilesFrom(ctx) != nil {
		t.Error("unreadable sources produced a reader")
	}
}

func TestWithSourceFiles_Directory(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "f", "x")

	ctx := WithSourceFiles(t.Context(), []string{dir, f})
	if src := sourceFilesFrom(ctx); src == nil || !slices.Equal(src.Paths(), []string{f}) {
		t.Errorf("directory was not skipped")
	}
}

func TestStdio_Defaults(t *testing.T) {
	ctx := t.Context()

	if stdinFrom(ctx) != os.Stdin {
		t.Error("stdin default is not os.Stdin")
	}

	if stdoutFrom(WithStdio(ctx, nil, nil)) != os.Stdout {
		t.Error("nil stdout override replaced os.Stdout")
	}
}
