package lang

import (
	"context"
	"errors"
	"log/slog"
)

// Evaluate evaluates q with the default engine.
func Evaluate(ctx context.Context, q Quote, mask *Scope) (any, error) {
	return defaultEngine.Evaluate(ctx, q, mask)
}

// Evaluate computes the value of an expanded quote. The optional data mask is
// consulted in front of the parents of q's bundled scope, and applies to
// every quote embedded in q as well. Names bound in the frame a quote was
// captured in take precedence over the mask unless the engine was created
// with [WithStrictMask].
//
// Evaluating a quote that still contains quasiquote markers fails with
// [ErrUnexpandedMarker].
func (e *Engine) Evaluate(ctx context.Context, q Quote, mask *Scope) (any, error) {
	e.logger.TraceContext(ctx, "evaluate start",
		exprAttr("expr", q.expr),
		slog.Any("mask", mask))

	ev := evaluator{engine: e, ctx: ctx, mask: mask}

	result, err := ev.node(q.expr, q.Scope(), 0)
	if err != nil {
		e.logger.TraceContext(ctx, "evaluate failed", slog.Any("error", err))

		return nil, err
	}

	e.logger.TraceContext(ctx, "evaluate complete",
		slog.String("result_type", resultTypeName(result)))

	return result, nil
}

// Resolve returns the value name has for a symbol in a quote captured in
// scope and evaluated with mask.
func (e *Engine) Resolve(name string, scope, mask *Scope) (any, error) {
	if scope == nil {
		scope = emptyScope
	}

	ev := evaluator{engine: e, mask: mask}

	return ev.resolve(name, scope)
}

type evaluator struct {
	engine *Engine
	ctx    context.Context
	mask   *Scope
}

func (ev *evaluator) node(n Node, scope *Scope, depth int) (any, error) {
	if depth > ev.engine.maxDepth {
		return nil, ErrMaxDepthExceeded.With(slog.Int("max_depth", ev.engine.maxDepth))
	}

	switch n := n.(type) {
	case nil:
		return nil, nil

	case *Literal:
		if q, ok := n.Value.(Quote); ok {
			return ev.node(q.expr, q.Scope(), depth+1)
		}

		return n.Value, nil

	case *Symbol:
		return ev.resolve(n.Name, scope)

	case *Call:
		return ev.call(n, scope, depth)

	case *Unquote, *Splice, *DefinitionArg:
		return nil, ErrUnexpandedMarker.With(
			slog.String("marker", n.Kind().String()),
			slog.String("expr", n.String()),
		)

	default:
		return nil, ErrUnsupportedSyntax.With(slog.String("got", resultTypeName(n)))
	}
}

// resolve looks up name in the capture frame, the data mask, and then the
// ancestors of the capture frame. In strict mode the mask comes first.
func (ev *evaluator) resolve(name string, scope *Scope) (any, error) {
	if !ev.engine.strictMask {
		if v, ok := scope.local(name); ok {
			return v, nil
		}
	}

	if v, ok := ev.mask.local(name); ok {
		return v, nil
	}

	base := scope
	if !ev.engine.strictMask {
		base = scope.Parent()
	}

	if base == nil {
		return nil, ErrUnboundSymbol.With(slog.String("name", name))
	}

	return base.Lookup(name)
}

func (ev *evaluator) call(n *Call, scope *Scope, depth int) (any, error) {
	if err := ev.ctx.Err(); err != nil {
		return nil, ErrCallFailed.Wrap(err)
	}

	if q, ok := quoteForm(n); ok {
		return q, nil
	}

	if v, ok, err := ev.lazyForm(n, scope, depth); ok {
		return v, err
	}

	callee, err := ev.node(n.Callee, scope, depth+1)
	if err != nil {
		return nil, err
	}

	args := make(Args, len(n.Args))

	for i, a := range n.Args {
		v, err := ev.node(a.Value, scope, depth+1)
		if err != nil {
			return nil, err
		}

		args[i] = Arg{Name: a.Name, Value: v}
	}

	args = dedupeArgs(args, func(a Arg) string { return a.Name })

	name := n.Callee.String()

	ev.engine.logger.TraceContext(ev.ctx, "call",
		slog.String("name", name),
		slog.Int("args", len(args)))

	if callee == nil {
		return nil, ErrNotCallable.With(
			slog.String("name", name),
			slog.String("got", "nil"),
		)
	}

	return invoke(ev.ctx, name, callee, args)
}

// quoteForm recognizes quote(expr), which yields expr as syntax without
// evaluating it.
func quoteForm(n *Call) (Node, bool) {
	sym, ok := n.Callee.(*Symbol)
	if !ok || sym.Name != "quote" || len(n.Args) != 1 || n.Args[0].Name != "" {
		return nil, false
	}

	return n.Args[0].Value, true
}

// lazyForm evaluates the short-circuit operators and, or, if, and ?? with
// their operands evaluated left to right only as far as the result needs.
// Calls with named arguments or the wrong arity fall through to the
// builtin, which reports the error.
func (ev *evaluator) lazyForm(n *Call, scope *Scope, depth int) (any, bool, error) {
	sym, ok := n.Callee.(*Symbol)
	if !ok {
		return nil, false, nil
	}

	for _, a := range n.Args {
		if a.Name != "" {
			return nil, false, nil
		}
	}

	arg := func(i int) (any, error) {
		return ev.node(n.Args[i].Value, scope, depth+1)
	}

	switch sym.Name {
	case "and", "&&":
		for i := range n.Args {
			v, err := arg(i)
			if err != nil {
				return nil, true, err
			}

			if !truthy(v) {
				return false, true, nil
			}
		}

		return true, true, nil

	case "or", "||":
		for i := range n.Args {
			v, err := arg(i)
			if err != nil {
				return nil, true, err
			}

			if truthy(v) {
				return true, true, nil
			}
		}

		return false, true, nil

	case "if":
		if len(n.Args) < 2 || len(n.Args) > 3 {
			return nil, false, nil
		}

		cond, err := arg(0)
		if err != nil {
			return nil, true, err
		}

		switch {
		case truthy(cond):
			v, err := arg(1)

			return v, true, err

		case len(n.Args) == 3:
			v, err := arg(2)

			return v, true, err
		}

		return nil, true, nil

	case "??":
		// An unbound operand counts as nil, except the last.
		for i := range n.Args {
			v, err := arg(i)

			switch {
			case err != nil && i < len(n.Args)-1 && errors.Is(err, ErrUnboundSymbol):
				continue

			case err != nil:
				return nil, true, err

			case v != nil:
				return v, true, nil
			}
		}

		return nil, true, nil
	}

	return nil, false, nil
}
