package lang

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// infix lists the operator symbols rendered between their two operands.
var infix = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"and": true, "or": true, "??": true, "in": true, "..": true,
}

// String implements [Node].
func (l *Literal) String() string { return render(l) }

// String implements [Node].
func (s *Symbol) String() string { return render(s) }

// String implements [Node].
func (c *Call) String() string { return render(c) }

// String implements [Node].
func (u *Unquote) String() string { return render(u) }

// String implements [Node].
func (s *Splice) String() string { return render(s) }

// String implements [Node].
func (d *DefinitionArg) String() string { return render(d) }

// render writes the whole tree into one buffer so that printing is linear
// in the size of the tree.
func render(n Node) string {
	var b strings.Builder

	writeNode(&b, n)

	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		b.WriteString("<nil>")

	case *Literal:
		writeLiteral(b, n.Value)

	case *Symbol:
		if isIdentifier(n.Name) {
			b.WriteString(n.Name)
		} else {
			b.WriteString("`" + n.Name + "`")
		}

	case *Call:
		writeCall(b, n)

	case *Unquote:
		b.WriteString("!!")
		writeNode(b, n.Inner)

	case *Splice:
		b.WriteString("!!!")
		writeNode(b, n.Inner)

	case *DefinitionArg:
		b.WriteString("define(")
		writeNode(b, n.Name)
		b.WriteString(", ")
		writeNode(b, n.Value)
		b.WriteString(")")
	}
}

func writeCall(b *strings.Builder, c *Call) {
	if sym, ok := c.Callee.(*Symbol); ok && infix[sym.Name] &&
		len(c.Args) == 2 && c.Args[0].Name == "" && c.Args[1].Name == "" {
		b.WriteString("(")
		writeNode(b, c.Args[0].Value)
		b.WriteString(" " + sym.Name + " ")
		writeNode(b, c.Args[1].Value)
		b.WriteString(")")

		return
	}

	writeNode(b, c.Callee)
	b.WriteString("(")

	for i, a := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}

		if a.Name != "" {
			b.WriteString(a.Name)
			b.WriteString(" = ")
		}

		writeNode(b, a.Value)
	}

	b.WriteString(")")
}

func formatLiteral(v any) string {
	var b strings.Builder

	writeLiteral(&b, v)

	return b.String()
}

func writeLiteral(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		b.WriteString("nil")

	case string:
		b.WriteString(strconv.Quote(x))

	case bool:
		b.WriteString(strconv.FormatBool(x))

	case int:
		b.WriteString(strconv.Itoa(x))

	case int64:
		b.WriteString(strconv.FormatInt(x, 10))

	case float64:
		b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))

	case Quote:
		b.WriteString("^")
		writeNode(b, x.expr)

	case Node:
		b.WriteString("quote(")
		writeNode(b, x)
		b.WriteString(")")

	case Args:
		b.WriteString("list(" + formatArgs(x) + ")")

	case []any:
		b.WriteString("[")

		for i, e := range x {
			if i > 0 {
				b.WriteString(", ")
			}

			writeLiteral(b, e)
		}

		b.WriteString("]")

	default:
		if reflect.ValueOf(v).Kind() == reflect.Func {
			b.WriteString("<function>")
		} else {
			fmt.Fprint(b, v)
		}
	}
}

func formatArgs(args Args) string {
	parts := make([]string, len(args))

	for i, a := range args {
		if a.Name != "" {
			parts[i] = a.Name + " = " + formatLiteral(a.Value)
		} else {
			parts[i] = formatLiteral(a.Value)
		}
	}

	return strings.Join(parts, ", ")
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '.'):
		default:
			return false
		}
	}

	return true
}
