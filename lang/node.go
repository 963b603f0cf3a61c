package lang

import (
	"reflect"
)

// Node is an immutable expression tree node. The set of implementations is
// closed: [*Literal], [*Symbol], [*Call], [*Unquote], [*Splice], and
// [*DefinitionArg].
type Node interface {
	// Kind returns the node kind.
	Kind() NodeKind

	// String returns the surface syntax of the node.
	String() string

	node()
}

// NodeKind identifies the concrete type of a [Node].
type NodeKind int

const (
	// NodeLiteral is an already-computed value embedded in syntax.
	NodeLiteral NodeKind = iota

	// NodeSymbol is a free variable reference.
	NodeSymbol

	// NodeCall is a function application.
	NodeCall

	// NodeUnquote marks a subtree for evaluation during expansion.
	NodeUnquote

	// NodeSplice marks a subtree whose sequence value expands into sibling
	// call arguments.
	NodeSplice

	// NodeDefinitionArg is a call argument with a computed name.
	NodeDefinitionArg
)

// String returns a string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeLiteral:
		return "Literal"

	case NodeSymbol:
		return "Symbol"

	case NodeCall:
		return "Call"

	case NodeUnquote:
		return "Unquote"

	case NodeSplice:
		return "Splice"

	case NodeDefinitionArg:
		return "DefinitionArg"

	default:
		return "Unknown"
	}
}

// Literal embeds an already-computed value in syntax.
type Literal struct {
	Value any
}

// Symbol references a free variable by name.
type Symbol struct {
	Name string
}

// Call applies Callee to an ordered list of possibly-named arguments.
type Call struct {
	Callee Node
	Args   []CallArg
}

// CallArg is one argument slot of a [Call]. An empty Name denotes a
// positional argument.
type CallArg struct {
	Name  string
	Value Node
}

// Unquote marks Inner for evaluation at expansion time.
type Unquote struct {
	Inner Node
}

// Splice marks Inner, which must evaluate to an ordered sequence, for
// expansion into zero or more sibling call arguments.
type Splice struct {
	Inner Node
}

// DefinitionArg is a call argument whose name is computed at expansion time.
// Name may be a [*Literal], [*Symbol], or [*Unquote].
type DefinitionArg struct {
	Name  Node
	Value Node
}

func (*Literal) node()       {}
func (*Symbol) node()        {}
func (*Call) node()          {}
func (*Unquote) node()       {}
func (*Splice) node()        {}
func (*DefinitionArg) node() {}

// Kind implements [Node].
func (*Literal) Kind() NodeKind { return NodeLiteral }

// Kind implements [Node].
func (*Symbol) Kind() NodeKind { return NodeSymbol }

// Kind implements [Node].
func (*Call) Kind() NodeKind { return NodeCall }

// Kind implements [Node].
func (*Unquote) Kind() NodeKind { return NodeUnquote }

// Kind implements [Node].
func (*Splice) Kind() NodeKind { return NodeSplice }

// Kind implements [Node].
func (*DefinitionArg) Kind() NodeKind { return NodeDefinitionArg }

// NewLiteral creates a literal node holding v.
func NewLiteral(v any) *Literal { return &Literal{Value: v} }

// NewSymbol creates a symbol node.
func NewSymbol(name string) *Symbol { return &Symbol{Name: name} }

// NewCall creates a call node. The argument slice is copied.
func NewCall(callee Node, args ...CallArg) *Call {
	return &Call{Callee: callee, Args: append([]CallArg(nil), args...)}
}

// NewUnquote creates an unquote marker.
func NewUnquote(inner Node) *Unquote { return &Unquote{Inner: inner} }

// NewSplice creates a splice marker.
func NewSplice(inner Node) *Splice { return &Splice{Inner: inner} }

// NewDefinitionArg creates a definition argument with a computed name.
func NewDefinitionArg(name, value Node) *DefinitionArg {
	return &DefinitionArg{Name: name, Value: value}
}

// Positional creates an unnamed call argument.
func Positional(v Node) CallArg { return CallArg{Value: v} }

// Named creates a named call argument.
func Named(name string, v Node) CallArg { return CallArg{Name: name, Value: v} }

// Apply is shorthand for a call of the named function with positional
// arguments.
func Apply(fn string, args ...Node) *Call {
	c := &Call{Callee: NewSymbol(fn), Args: make([]CallArg, len(args))}
	for i, a := range args {
		c.Args[i] = Positional(a)
	}

	return c
}

// Equal reports whether a and b are structurally equal. Literal values are
// compared with [reflect.DeepEqual]; embedded quotes compare equal when their
// expressions are equal and they share the same scope.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case *Literal:
		return literalEqual(x.Value, b.(*Literal).Value)

	case *Symbol:
		return x.Name == b.(*Symbol).Name

	case *Call:
		y := b.(*Call)
		if len(x.Args) != len(y.Args) || !Equal(x.Callee, y.Callee) {
			return false
		}

		for i := range x.Args {
			if x.Args[i].Name != y.Args[i].Name ||
				!Equal(x.Args[i].Value, y.Args[i].Value) {
				return false
			}
		}

		return true

	case *Unquote:
		return Equal(x.Inner, b.(*Unquote).Inner)

	case *Splice:
		return Equal(x.Inner, b.(*Splice).Inner)

	case *DefinitionArg:
		y := b.(*DefinitionArg)

		return Equal(x.Name, y.Name) && Equal(x.Value, y.Value)

	default:
		return false
	}
}

func literalEqual(a, b any) bool {
	switch x := a.(type) {
	case Quote:
		y, ok := b.(Quote)

		return ok && x.Equal(y)

	case Node:
		y, ok := b.(Node)

		return ok && Equal(x, y)

	default:
		if _, ok := b.(Quote); ok {
			return false
		}

		// Host functions are never DeepEqual unless both are nil.
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		if va.Kind() == reflect.Func && vb.Kind() == reflect.Func {
			return va.Pointer() == vb.Pointer()
		}

		return reflect.DeepEqual(a, b)
	}
}

// Walk traverses n depth-first, left to right, calling fn for every node.
// Traversal of a subtree stops when fn returns false for its root.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch x := n.(type) {
	case *Call:
		Walk(x.Callee, fn)

		for _, a := range x.Args {
			Walk(a.Value, fn)
		}

	case *Unquote:
		Walk(x.Inner, fn)

	case *Splice:
		Walk(x.Inner, fn)

	case *DefinitionArg:
		Walk(x.Name, fn)
		Walk(x.Value, fn)
	}
}

// HasMarkers reports whether n contains any [*Unquote], [*Splice], or
// [*DefinitionArg] node.
func HasMarkers(n Node) bool {
	found := false

	Walk(n, func(n Node) bool {
		switch n.(type) {
		case *Unquote, *Splice, *DefinitionArg:
			found = true
		}

		return !found
	})

	return found
}

// Depth returns the height of the tree rooted at n.
func Depth(n Node) int {
	switch x := n.(type) {
	case *Call:
		d := Depth(x.Callee)
		for _, a := range x.Args {
			d = max(d, Depth(a.Value))
		}

		return d + 1

	case *Unquote:
		return Depth(x.Inner) + 1

	case *Splice:
		return Depth(x.Inner) + 1

	case *DefinitionArg:
		return max(Depth(x.Name), Depth(x.Value)) + 1

	case nil:
		return 0

	default:
		return 1
	}
}
