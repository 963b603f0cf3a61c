package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/quasi/lang"
)

// Fmt parses an expression and prints its tree without evaluating it.
type Fmt struct {
	Text Text     `cmd:"" default:"withargs" help:"Print in expression syntax (default)."`
	Tree Tree     `cmd:""                    help:"Print as an indented outline."`
	JSON JSONTree `cmd:"" name:"json"        help:"Print as JSON."`
	YAML YAMLTree `cmd:"" name:"yaml"        help:"Print as YAML."`
}

// Text prints the canonical expression syntax of the parsed tree.
type Text struct {
	Input `embed:""`
}

// Run executes the fmt text command.
func (f *Text) Run(ctx context.Context) error {
	return formatWith(ctx, f.Input, "text", func(w io.Writer, n lang.Node) error {
		_, err := io.WriteString(w, n.String()+"\n")

		return err
	})
}

// Tree prints the parsed tree as an indented outline.
type Tree struct {
	Input `embed:""`

	Indent int `default:"2" help:"Indent width." short:"i"`
}

// Run executes the fmt tree command.
func (f *Tree) Run(ctx context.Context) error {
	return formatWith(ctx, f.Input, "tree", func(w io.Writer, n lang.Node) error {
		return lang.FormatTree(w, n, f.Indent)
	})
}

// JSONTree prints the parsed tree as JSON.
type JSONTree struct {
	Input `embed:""`

	Indent int `default:"2" help:"Indent width, or 0 for one line." short:"i"`
}

// Run executes the fmt json command.
func (f *JSONTree) Run(ctx context.Context) error {
	return formatWith(ctx, f.Input, "json", func(w io.Writer, n lang.Node) error {
		return lang.FormatJSON(ctx, w, n, f.Indent)
	})
}

// YAMLTree prints the parsed tree as YAML.
type YAMLTree struct {
	Input `embed:""`

	Indent int `default:"2" help:"Indent width, or 0 for flow style." short:"i"`
}

// Run executes the fmt yaml command.
func (f *YAMLTree) Run(ctx context.Context) error {
	return formatWith(ctx, f.Input, "yaml", func(w io.Writer, n lang.Node) error {
		return lang.FormatYAML(ctx, w, n, f.Indent)
	})
}

func formatWith(
	ctx context.Context,
	in Input,
	format string,
	write func(io.Writer, lang.Node) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	n, err := in.parse(ctx, nil)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", format))
	}

	if err := write(stdoutFrom(ctx), n); err != nil {
		return ErrWriteOutput.With(slog.String("format", format)).Wrap(err)
	}

	return nil
}
