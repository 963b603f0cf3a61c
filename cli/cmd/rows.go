package cmd

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/quasi/lang"
	"github.com/ardnew/quasi/log"
)

// Rows captures and expands an expression once, then evaluates it once per
// dataset row with that row as the data mask.
type Rows struct {
	Input       `embed:""`
	Environment `embed:""`
	Engine      `embed:""`
	Output      `embed:""`

	Jobs int `default:"1" help:"Rows evaluated concurrently." short:"j"`
}

// Run executes the rows command.
func (r *Rows) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	if r.Dataset == "" {
		return ErrNoDataset
	}

	scope, ds, err := r.scope(ctx)
	if err != nil {
		return err
	}

	n, err := r.parse(ctx, scope)
	if err != nil {
		return err
	}

	masks, err := ds.Masks()
	if err != nil {
		return ErrReadDataset.With(slog.String("path", r.Dataset)).Wrap(err)
	}

	eng := r.engine()

	expanded, err := eng.Expand(ctx, lang.Capture(n, scope))
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "rows"))
	}

	results, err := evaluateRows(ctx, eng, expanded, masks, r.Jobs)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "evaluated rows",
		slog.Any("quote", expanded),
		slog.Int("rows", len(results)),
	)

	w := stdoutFrom(ctx)

	if r.Output.Output != "text" {
		return r.write(ctx, w, results)
	}

	for _, v := range results {
		if err := r.write(ctx, w, v); err != nil {
			return err
		}
	}

	return nil
}

// evaluateRows evaluates q once per mask, at most jobs at a time, and
// returns the results in row order. The first failure cancels the rest.
func evaluateRows(
	ctx context.Context,
	eng *lang.Engine,
	q lang.Quote,
	masks []*lang.Scope,
	jobs int,
) ([]any, error) {
	results := make([]any, len(masks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))

	for i, m := range masks {
		g.Go(func() error {
			v, err := eng.Evaluate(ctx, q, m)
			if err != nil {
				return ErrRow.With(slog.Int("row", i)).Wrap(err)
			}

			results[i] = v

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
