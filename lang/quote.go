package lang

import "log/slog"

// Quote is a scoped quote: an expression tree bundled with the lexical scope
// that was active when it was captured. Quotes are immutable values.
//
// The zero Quote holds no expression and evaluates to nil.
type Quote struct {
	expr  Node
	scope *Scope
}

// emptyScope is shared by every quote captured without a caller scope.
var emptyScope = NewScope(nil).Freeze()

// Capture bundles expr with the caller's scope without evaluating anything.
// The caller scope and its ancestors are frozen; a nil scope captures the
// empty scope.
func Capture(expr Node, caller *Scope) Quote {
	if caller == nil {
		caller = emptyScope
	}

	caller.Freeze()

	return Quote{expr: expr, scope: caller}
}

// Expr returns the quoted expression.
func (q Quote) Expr() Node { return q.expr }

// Scope returns the bundled lexical scope.
func (q Quote) Scope() *Scope {
	if q.scope == nil {
		return emptyScope
	}

	return q.scope
}

// IsZero reports whether q holds no expression.
func (q Quote) IsZero() bool { return q.expr == nil }

// withExpr returns a quote of expr sharing q's scope.
func (q Quote) withExpr(expr Node) Quote {
	return Quote{expr: expr, scope: q.Scope()}
}

// Equal reports whether q and other hold structurally equal expressions
// bundled with the same scope.
func (q Quote) Equal(other Quote) bool {
	return q.Scope() == other.Scope() && Equal(q.expr, other.expr)
}

// String returns the surface syntax of the quoted expression.
func (q Quote) String() string {
	if q.expr == nil {
		return ""
	}

	return q.expr.String()
}

// LogValue implements [slog.LogValuer].
func (q Quote) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("expr", q.String()),
		slog.Any("scope", q.Scope()),
	)
}
