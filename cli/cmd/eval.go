package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/quasi/lang"
	"github.com/ardnew/quasi/log"
)

// Eval captures an expression, expands it, and evaluates it once.
type Eval struct {
	Input       `embed:""`
	Environment `embed:""`
	Engine      `embed:""`
	Output      `embed:""`

	Mask []string `help:"Bind NAME=EXPR in the data mask (repeatable)." placeholder:"NAME=EXPR" sep:"none" short:"m"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	q, err := capture(ctx, e.Input, e.Environment)
	if err != nil {
		return err
	}

	m, err := mask(ctx, e.Mask)
	if err != nil {
		return err
	}

	eng := e.engine()

	expanded, err := eng.Expand(ctx, q)
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "eval"))
	}

	result, err := eng.Evaluate(ctx, expanded, m)
	if err != nil {
		return lang.WrapError(err).With(
			slog.String("command", "eval"),
			slog.String("expr", expanded.String()),
		)
	}

	log.DebugContext(ctx, "evaluated",
		slog.Any("quote", expanded),
		slog.String("type", typeName(result)),
	)

	return e.write(ctx, stdoutFrom(ctx), result)
}

// capture parses the input and captures it in the environment's scope.
func capture(ctx context.Context, in Input, env Environment) (lang.Quote, error) {
	scope, _, err := env.scope(ctx)
	if err != nil {
		return lang.Quote{}, err
	}

	n, err := in.parse(ctx, scope)
	if err != nil {
		return lang.Quote{}, err
	}

	return lang.Capture(n, scope), nil
}
