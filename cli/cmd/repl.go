package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/quasi/cli/cmd/repl"
	"github.com/ardnew/quasi/lang"
	"github.com/ardnew/quasi/log"
)

// Repl reads expressions interactively and evaluates each against the
// selected dataset row.
type Repl struct {
	Environment `embed:""`
	Engine      `embed:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	scope, ds, err := r.scope(ctx)
	if err != nil {
		return err
	}

	var masks []*lang.Scope

	if ds != nil {
		if masks, err = ds.Masks(); err != nil {
			return ErrReadDataset.With(slog.String("path", r.Dataset)).Wrap(err)
		}
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, repl.NewSession(r.engine(), scope, masks), cacheDir, log.Default())
}
