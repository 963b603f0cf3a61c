package lang

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr/ast"

	"github.com/ardnew/quasi/log"
)

// hyphenPatcher reconstructs hyphenated identifiers from BinaryNode("-")
// subtraction chains created by expr-lang's parser.
//
// Names such as "log-level" parse as subtraction. This visitor detects
// subtraction chains and, when the combined name is bound in the names
// scope, patches the node to a single identifier or member access.
// Dotted names are bound flat, so the member "a.b-c" is checked as the
// name "a.b-c".
type hyphenPatcher struct {
	names  *Scope
	logger log.Logger
}

// Visit implements ast.Visitor for hyphenPatcher.
func (p *hyphenPatcher) Visit(node *ast.Node) {
	binNode, ok := (*node).(*ast.BinaryNode)
	if !ok || binNode.Operator != "-" {
		return
	}

	// Right side must be an identifier (the segment after the hyphen).
	rightIdent, ok := binNode.Right.(*ast.IdentifierNode)
	if !ok {
		return
	}

	base, property, ok := hyphenChain(binNode.Left)
	if !ok {
		return
	}

	combined := property + "-" + rightIdent.Value

	if base == nil {
		if p.names.Has(combined) {
			ast.Patch(node, &ast.IdentifierNode{Value: combined})
			p.trace(combined, "identifier")
		}

		return
	}

	path, ok := memberPath(base)
	if !ok || !p.names.Has(strings.Join(path, ".")+"."+combined) {
		return
	}

	ast.Patch(node, &ast.MemberNode{
		Node:     base,
		Property: &ast.StringNode{Value: combined},
	})
	p.trace(combined, "member")
}

func (p *hyphenPatcher) trace(name, kind string) {
	p.logger.Trace("patch hyphenated",
		slog.String("combined_name", name),
		slog.String("patch_type", kind))
}

// hyphenChain walks the left operand of a subtraction to extract the member
// base (nil for a top-level identifier) and the accumulated hyphenated name.
// Inner chains are already patched when their prefix is itself bound.
func hyphenChain(n ast.Node) (base ast.Node, property string, ok bool) {
	switch n := n.(type) {
	case *ast.IdentifierNode:
		return nil, n.Value, true

	case *ast.MemberNode:
		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return nil, "", false
		}

		return n.Node, prop.Value, true

	case *ast.BinaryNode:
		if n.Operator != "-" {
			return nil, "", false
		}

		right, ok := n.Right.(*ast.IdentifierNode)
		if !ok {
			return nil, "", false
		}

		inner, prop, ok := hyphenChain(n.Left)
		if !ok {
			return nil, "", false
		}

		return inner, prop + "-" + right.Value, true

	default:
		return nil, "", false
	}
}
