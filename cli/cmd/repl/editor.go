package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/quasi/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for composing an expression in
// the user's editor. The file starts with seed. When the result does not
// parse, the user is asked to edit it again; declining returns
// [ErrEditDeclined]. An empty file cancels the edit.
type editCommand struct {
	session *Session
	ctx     context.Context
	seed    string
	src     string
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

func (c *editCommand) Run() error {
	f, err := os.CreateTemp("", "quasi-repl-*.expr")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := c.seed

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(c.ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)

		src := strings.TrimSpace(content)
		if src == "" {
			return nil
		}

		_, perr := c.session.Parse(c.ctx, src)
		c.logger.TraceContext(c.ctx, "editor parse attempt",
			slog.Int("length", len(src)),
			slog.Bool("success", perr == nil),
		)

		if perr == nil {
			c.src = src

			return nil
		}

		fmt.Fprintf(c.stderr, "\nparse error: %s\n", perr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		sc := bufio.NewScanner(c.stdin)
		if !sc.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(sc.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// editorCommand returns the argv of the user's editor. $EDITOR may carry
// arguments, as in "code --wait".
func editorCommand() []string {
	if f := strings.Fields(os.Getenv("EDITOR")); len(f) > 0 {
		return f
	}

	return []string{defaultEditor}
}

func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	path string,
) error {
	argv := append(editorCommand(), path)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
