package lang

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// ParseString parses expr-lang surface syntax into an expression tree.
//
// Operators become calls of the operator symbol, "a ? b : c" becomes
// if(a, b, c), arrays become array(...), maps become list(k = v, ...), and
// identifier member chains such as path.cat become a single dotted symbol.
// Quasiquote markers are written as:
//
//	!!x             unquote(x)
//	!!!xs           splice(xs)
//	define(n, v)    named argument with a computed name
//	quote(x)        x as syntax, unevaluated
func ParseString(ctx context.Context, src string, opts ...Option) (Node, error) {
	e := NewEngine(opts...)

	e.logger.TraceContext(ctx, "parse start",
		slog.Int("source_bytes", len(src)),
		slog.Bool("patch_names", e.names != nil))

	tree, err := parser.Parse(src)
	if err != nil {
		return nil, ErrParse.Wrap(err).With(slog.Int("source_length", len(src)))
	}

	if e.names != nil {
		ast.Walk(&tree.Node, &hyphenPatcher{names: e.names, logger: e.logger})
	}

	c := converter{maxDepth: e.maxDepth}

	node, err := c.convert(tree.Node, 0)
	if err != nil {
		return nil, err
	}

	if e.tracing(ctx) {
		e.logger.TraceContext(ctx, "parse complete",
			exprAttr("expr", node),
			slog.Bool("markers", HasMarkers(node)))
	}

	return node, nil
}

// MustParse is like [ParseString] but panics on error. It is intended for
// tests and package-level initialization.
func MustParse(src string, opts ...Option) Node {
	n, err := ParseString(context.Background(), src, opts...)
	if err != nil {
		panic(err)
	}

	return n
}

// converter translates an expr-lang syntax tree into expression nodes.
type converter struct {
	maxDepth int
}

func (c *converter) convert(n ast.Node, depth int) (Node, error) {
	if depth > c.maxDepth {
		return nil, ErrMaxDepthExceeded.With(slog.Int("max_depth", c.maxDepth))
	}

	switch n := n.(type) {
	case *ast.NilNode:
		return &Literal{}, nil

	case *ast.BoolNode:
		return &Literal{Value: n.Value}, nil

	case *ast.IntegerNode:
		return &Literal{Value: n.Value}, nil

	case *ast.FloatNode:
		return &Literal{Value: n.Value}, nil

	case *ast.StringNode:
		return &Literal{Value: n.Value}, nil

	case *ast.ConstantNode:
		return &Literal{Value: n.Value}, nil

	case *ast.IdentifierNode:
		return &Symbol{Name: n.Value}, nil

	case *ast.ChainNode:
		return c.convert(n.Node, depth+1)

	case *ast.UnaryNode:
		return c.unary(n, depth)

	case *ast.BinaryNode:
		return c.apply(depth, &Symbol{Name: n.Operator}, n.Left, n.Right)

	case *ast.ConditionalNode:
		return c.apply(depth, &Symbol{Name: "if"}, n.Cond, n.Exp1, n.Exp2)

	case *ast.ArrayNode:
		return c.apply(depth, &Symbol{Name: "array"}, n.Nodes...)

	case *ast.MapNode:
		return c.mapNode(n, depth)

	case *ast.MemberNode:
		return c.member(n, depth)

	case *ast.CallNode:
		return c.call(n, depth)

	case *ast.BuiltinNode:
		return c.apply(depth, &Symbol{Name: n.Name}, n.Arguments...)

	default:
		return nil, ErrUnsupportedSyntax.With(
			slog.String("got", fmt.Sprintf("%T", n)),
			slog.String("expr", n.String()),
		)
	}
}

func (c *converter) apply(depth int, callee Node, args ...ast.Node) (Node, error) {
	call := &Call{Callee: callee, Args: make([]CallArg, len(args))}

	for i, a := range args {
		v, err := c.convert(a, depth+1)
		if err != nil {
			return nil, err
		}

		call.Args[i] = CallArg{Value: v}
	}

	return call, nil
}

// unary maps runs of "!" to markers: two is an unquote, three is a splice.
// Longer runs negate a splice.
func (c *converter) unary(n *ast.UnaryNode, depth int) (Node, error) {
	if n.Operator != "!" {
		return c.apply(depth, &Symbol{Name: n.Operator}, n.Node)
	}

	bangs, inner := 1, n.Node
	for bangs < 3 {
		u, ok := inner.(*ast.UnaryNode)
		if !ok || u.Operator != "!" {
			break
		}

		bangs, inner = bangs+1, u.Node
	}

	switch bangs {
	case 2:
		v, err := c.convert(inner, depth+1)
		if err != nil {
			return nil, err
		}

		return &Unquote{Inner: v}, nil

	case 3:
		if u, ok := inner.(*ast.UnaryNode); ok && u.Operator == "!" {
			return c.apply(depth, &Symbol{Name: "!"}, n.Node)
		}

		v, err := c.convert(inner, depth+1)
		if err != nil {
			return nil, err
		}

		return &Splice{Inner: v}, nil

	default:
		return c.apply(depth, &Symbol{Name: "!"}, n.Node)
	}
}

func (c *converter) mapNode(n *ast.MapNode, depth int) (Node, error) {
	call := &Call{Callee: &Symbol{Name: "list"}, Args: make([]CallArg, 0, len(n.Pairs))}

	for _, p := range n.Pairs {
		pair, ok := p.(*ast.PairNode)
		if !ok {
			return nil, ErrUnsupportedSyntax.With(slog.String("got", fmt.Sprintf("%T", p)))
		}

		v, err := c.convert(pair.Value, depth+1)
		if err != nil {
			return nil, err
		}

		switch key := pair.Key.(type) {
		case *ast.StringNode:
			call.Args = append(call.Args, CallArg{Name: key.Value, Value: v})

		case *ast.IdentifierNode:
			call.Args = append(call.Args, CallArg{Name: key.Value, Value: v})

		default:
			k, err := c.convert(pair.Key, depth+1)
			if err != nil {
				return nil, err
			}

			call.Args = append(call.Args, CallArg{Value: &DefinitionArg{Name: k, Value: v}})
		}
	}

	return call, nil
}

func (c *converter) member(n *ast.MemberNode, depth int) (Node, error) {
	if path, ok := memberPath(n); ok {
		return &Symbol{Name: strings.Join(path, ".")}, nil
	}

	return c.apply(depth, &Symbol{Name: "get"}, n.Node, n.Property)
}

func (c *converter) call(n *ast.CallNode, depth int) (Node, error) {
	if id, ok := n.Callee.(*ast.IdentifierNode); ok {
		switch {
		case id.Value == "unquote" && len(n.Arguments) == 1:
			v, err := c.convert(n.Arguments[0], depth+1)
			if err != nil {
				return nil, err
			}

			return &Unquote{Inner: v}, nil

		case id.Value == "splice" && len(n.Arguments) == 1:
			v, err := c.convert(n.Arguments[0], depth+1)
			if err != nil {
				return nil, err
			}

			return &Splice{Inner: v}, nil

		case id.Value == "define" && len(n.Arguments) == 2:
			name, err := c.convert(n.Arguments[0], depth+1)
			if err != nil {
				return nil, err
			}

			v, err := c.convert(n.Arguments[1], depth+1)
			if err != nil {
				return nil, err
			}

			return &DefinitionArg{Name: name, Value: v}, nil
		}
	}

	callee, err := c.convert(n.Callee, depth+1)
	if err != nil {
		return nil, err
	}

	call := &Call{Callee: callee, Args: make([]CallArg, 0, len(n.Arguments))}

	for _, a := range n.Arguments {
		v, err := c.convert(a, depth+1)
		if err != nil {
			return nil, err
		}

		// A named argument is written as define("name", value).
		if d, ok := v.(*DefinitionArg); ok {
			if lit, ok := d.Name.(*Literal); ok {
				if s, ok := lit.Value.(string); ok && s != "" {
					call.Args = append(call.Args, CallArg{Name: s, Value: d.Value})

					continue
				}
			}
		}

		call.Args = append(call.Args, CallArg{Value: v})
	}

	return call, nil
}

// memberPath returns the segments of an identifier member chain such as
// a.b.c, or false if any segment is computed.
func memberPath(n ast.Node) ([]string, bool) {
	switch n := n.(type) {
	case *ast.IdentifierNode:
		return []string{n.Value}, true

	case *ast.MemberNode:
		if n.Optional {
			return nil, false
		}

		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return nil, false
		}

		base, ok := memberPath(n.Node)
		if !ok {
			return nil, false
		}

		return append(base, prop.Value), true

	default:
		return nil, false
	}
}
