package repl

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func TestEditorCommand(t *testing.T) {
	t.Setenv("EDITOR", "")

	if got := editorCommand(); !slices.Equal(got, []string{defaultEditor}) {
		t.Errorf("editorCommand() = %q", got)
	}

	t.Setenv("EDITOR", "code --wait")

	if got := editorCommand(); !slices.Equal(got, []string{"code", "--wait"}) {
		t.Errorf("editorCommand() = %q", got)
	}
}

// fakeEditor installs $EDITOR as a script that overwrites its file
// argument with each of contents in turn.
func fakeEditor(t *testing.T, contents ...string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell editor script")
	}

	dir := t.TempDir()

	var script strings.Builder

	script.WriteString("#!/bin/sh\n")
	script.WriteString("n=$(cat \"" + filepath.Join(dir, "count") + "\" 2>/dev/null || echo 0)\n")
	script.WriteString("n=$((n + 1))\n")
	script.WriteString("echo $n > \"" + filepath.Join(dir, "count") + "\"\n")

	for i, c := range contents {
		path := filepath.Join(dir, "content"+string(rune('0'+i+1)))
		if err := os.WriteFile(path, []byte(c), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	script.WriteString("cp \"" + dir + "/content$n\" \"$1\"\n")

	editor := filepath.Join(dir, "editor.sh")
	if err := os.WriteFile(editor, []byte(script.String()), 0o700); err != nil {
		t.Fatal(err)
	}

	t.Setenv("EDITOR", editor)
}

func newEditCommand(t *testing.T, answers string) *editCommand {
	t.Helper()

	cmd := &editCommand{session: newTestSession(t), ctx: t.Context()}
	cmd.SetStdin(strings.NewReader(answers))
	cmd.SetStdout(&bytes.Buffer{})
	cmd.SetStderr(&bytes.Buffer{})

	return cmd
}

func TestEditCommand_Run(t *testing.T) {
	fakeEditor(t, "base + 1\n")

	cmd := newEditCommand(t, "")
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if cmd.src != "base + 1" {
		t.Errorf("src = %q", cmd.src)
	}
}

func TestEditCommand_Retry(t *testing.T) {
	fakeEditor(t, "f(", "base")

	cmd := newEditCommand(t, "y\n")
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if cmd.src != "base" {
		t.Errorf("src = %q", cmd.src)
	}
}

func TestEditCommand_Declined(t *testing.T) {
	fakeEditor(t, "f(")

	cmd := newEditCommand(t, "n\n")
	if err := cmd.Run(); !errors.Is(err, ErrEditDeclined) {
		t.Errorf("expected ErrEditDeclined, got %v", err)
	}
}

func TestEditCommand_Cancelled(t *testing.T) {
	fakeEditor(t, "  \n")

	cmd := newEditCommand(t, "")
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if cmd.src != "" {
		t.Errorf("src = %q, want empty", cmd.src)
	}
}
