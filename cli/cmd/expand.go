package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/quasi/lang"
)

// Expand captures an expression and prints it with every unquote and
// splice replaced.
type Expand struct {
	Input       `embed:""`
	Environment `embed:""`
	Engine      `embed:""`

	Tree   bool `help:"Print the expanded tree as an outline."`
	Indent int  `default:"2" help:"Indent width for --tree."`
}

// Run executes the expand command.
func (x *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	q, err := capture(ctx, x.Input, x.Environment)
	if err != nil {
		return err
	}

	expanded, err := x.engine().Expand(ctx, q)
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "expand"))
	}

	w := stdoutFrom(ctx)

	if x.Tree {
		err = lang.FormatTree(w, expanded.Expr(), x.Indent)
	} else {
		_, err = io.WriteString(w, expanded.Expr().String()+"\n")
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
