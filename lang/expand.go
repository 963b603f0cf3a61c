package lang

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/goccy/go-yaml"
)

// Expand expands q with the default engine.
func Expand(ctx context.Context, q Quote) (Quote, error) {
	return defaultEngine.Expand(ctx, q)
}

// Expand rewrites every quasiquote marker in q, evaluating unquoted and
// spliced subtrees in q's bundled scope with no data mask. The result shares
// q's scope and contains no [*Unquote], [*Splice], or [*DefinitionArg].
//
// An unquoted subtree that evaluates to a [Node] is substituted as syntax and
// resolves its free variables in q's scope. One that evaluates to a [Quote] is
// expanded in its own scope and embedded as a [*Literal], so its free
// variables keep resolving through its own scope. Any other value is embedded
// as a [*Literal].
//
// Expanding a quote without markers returns an equal quote.
func (e *Engine) Expand(ctx context.Context, q Quote) (Quote, error) {
	e.logger.TraceContext(ctx, "expand start", exprAttr("expr", q.expr))

	x := expander{engine: e, ctx: ctx, quote: q}

	expr, err := x.node(q.expr, 0)
	if err != nil {
		e.logger.TraceContext(ctx, "expand failed", slog.Any("error", err))

		return Quote{}, err
	}

	out := q.withExpr(expr)

	if e.tracing(ctx) {
		e.logger.TraceContext(ctx, "expand complete",
			exprAttr("expr", expr),
			slog.Int("depth", Depth(expr)))
	}

	return out, nil
}

type expander struct {
	engine *Engine
	ctx    context.Context
	quote  Quote
}

func (x *expander) node(n Node, depth int) (Node, error) {
	if depth > x.engine.maxDepth {
		return nil, ErrMaxDepthExceeded.With(slog.Int("max_depth", x.engine.maxDepth))
	}

	switch n := n.(type) {
	case nil, *Symbol:
		return n, nil

	case *Literal:
		return x.literal(n, depth)

	case *Unquote:
		return x.unquote(n, depth)

	case *Call:
		return x.call(n, depth)

	case *Splice:
		return nil, ErrInvalidSpliceTarget.With(slog.String("expr", n.String()))

	case *DefinitionArg:
		return nil, ErrInvalidDefinitionTarget.With(slog.String("expr", n.String()))

	default:
		return nil, ErrUnsupportedSyntax.With(slog.String("got", resultTypeName(n)))
	}
}

// literal expands a quote embedded by hand that still carries markers.
func (x *expander) literal(n *Literal, depth int) (Node, error) {
	q, ok := n.Value.(Quote)
	if !ok || !HasMarkers(q.expr) {
		return n, nil
	}

	return x.embed(q, depth)
}

func (x *expander) embed(q Quote, depth int) (Node, error) {
	sub := expander{engine: x.engine, ctx: x.ctx, quote: q}

	expr, err := sub.node(q.expr, depth+1)
	if err != nil {
		return nil, err
	}

	return &Literal{Value: q.withExpr(expr)}, nil
}

// value converts a value produced at expansion time into syntax.
func (x *expander) value(v any, depth int) (Node, error) {
	switch v := v.(type) {
	case Node:
		// Substituted syntax lives under the outer quote's scope.
		return x.node(v, depth+1)

	case Quote:
		return x.embed(v, depth)

	default:
		return &Literal{Value: v}, nil
	}
}

func (x *expander) eval(n Node, depth int) (any, error) {
	ev := evaluator{engine: x.engine, ctx: x.ctx}

	return ev.node(n, x.quote.Scope(), depth+1)
}

func (x *expander) unquote(n *Unquote, depth int) (Node, error) {
	v, err := x.eval(n.Inner, depth)
	if err != nil {
		return nil, err
	}

	x.engine.logger.TraceContext(x.ctx, "unquote",
		exprAttr("expr", n.Inner),
		slog.String("result_type", resultTypeName(v)))

	return x.value(v, depth)
}

func (x *expander) call(n *Call, depth int) (Node, error) {
	callee, err := x.node(n.Callee, depth+1)
	if err != nil {
		return nil, err
	}

	args := make([]CallArg, 0, len(n.Args))
	rewrote := false

	for _, a := range n.Args {
		switch v := a.Value.(type) {
		case *Splice:
			if a.Name != "" {
				return nil, ErrInvalidSpliceTarget.With(
					slog.String("name", a.Name),
					slog.String("expr", v.String()),
				)
			}

			spliced, err := x.splice(v, depth)
			if err != nil {
				return nil, err
			}

			args = append(args, spliced...)
			rewrote = true

		case *DefinitionArg:
			arg, err := x.definition(v, depth)
			if err != nil {
				return nil, err
			}

			args = append(args, arg)
			rewrote = true

		default:
			val, err := x.node(a.Value, depth+1)
			if err != nil {
				return nil, err
			}

			args = append(args, CallArg{Name: a.Name, Value: val})
		}
	}

	if rewrote {
		args = dedupeArgs(args, func(a CallArg) string { return a.Name })
	}

	return &Call{Callee: callee, Args: args}, nil
}

func (x *expander) splice(n *Splice, depth int) ([]CallArg, error) {
	v, err := x.eval(n.Inner, depth)
	if err != nil {
		return nil, err
	}

	elems, ok := sequence(v)
	if !ok {
		return nil, ErrNotASequence.With(
			slog.String("got", resultTypeName(v)),
			slog.String("expr", n.Inner.String()),
		)
	}

	x.engine.logger.TraceContext(x.ctx, "splice",
		exprAttr("expr", n.Inner),
		slog.Int("count", len(elems)))

	args := make([]CallArg, len(elems))

	for i, el := range elems {
		val, err := x.value(el.Value, depth)
		if err != nil {
			return nil, err
		}

		args[i] = CallArg{Name: el.Name, Value: val}
	}

	return args, nil
}

func (x *expander) definition(n *DefinitionArg, depth int) (CallArg, error) {
	nameNode := n.Name
	if u, ok := nameNode.(*Unquote); ok {
		nameNode = u.Inner
	}

	v, err := x.eval(nameNode, depth)
	if err != nil {
		return CallArg{}, err
	}

	var name string

	switch v := v.(type) {
	case string:
		name = v

	case *Symbol:
		name = v.Name
	}

	if name == "" {
		return CallArg{}, ErrInvalidName.With(
			slog.String("got", resultTypeName(v)),
			slog.String("expr", n.Name.String()),
		)
	}

	val, err := x.node(n.Value, depth+1)
	if err != nil {
		return CallArg{}, err
	}

	x.engine.logger.TraceContext(x.ctx, "define", slog.String("name", name))

	return CallArg{Name: name, Value: val}, nil
}

// sequence returns the ordered elements of a splice source.
func sequence(v any) (Args, bool) {
	switch v := v.(type) {
	case Args:
		return v, true

	case []Arg:
		return Args(v), true

	case yaml.MapSlice:
		out := make(Args, len(v))
		for i, item := range v {
			out[i] = Arg{Name: mapKey(item.Key), Value: item.Value}
		}

		return out, true

	case []Node:
		out := make(Args, len(v))
		for i, n := range v {
			out[i] = Arg{Value: n}
		}

		return out, true

	case []any:
		out := make(Args, len(v))
		for i, e := range v {
			out[i] = Arg{Value: e}
		}

		return out, true

	case nil, string:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make(Args, rv.Len())
	for i := range rv.Len() {
		out[i] = Arg{Value: rv.Index(i).Interface()}
	}

	return out, true
}

func mapKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}

	return fmt.Sprint(k)
}
