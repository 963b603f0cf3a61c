package repl

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/quasi/lang"
)

// exprParams names the parameters of the expr-lang builtins, whose Go
// signatures are all variadic any.
var exprParams = map[string][]string{
	"len":        {"v"},
	"sum":        {"array"},
	"mean":       {"array"},
	"median":     {"array"},
	"min":        {"...v"},
	"max":        {"...v"},
	"join":       {"array", "separator"},
	"split":      {"string", "separator"},
	"replace":    {"string", "old", "new"},
	"trim":       {"string", "cutset"},
	"trimPrefix": {"string", "prefix"},
	"trimSuffix": {"string", "suffix"},
	"upper":      {"string"},
	"lower":      {"string"},
	"indexOf":    {"string", "substring"},
	"repeat":     {"string", "n"},
	"int":        {"v"},
	"float":      {"v"},
	"string":     {"v"},
	"type":       {"v"},
	"abs":        {"v"},
	"ceil":       {"v"},
	"floor":      {"v"},
	"round":      {"v"},
	"keys":       {"map"},
	"values":     {"map"},
	"first":      {"array"},
	"last":       {"array"},
	"reverse":    {"array"},
	"uniq":       {"array"},
	"flatten":    {"array"},
	"concat":     {"...array"},
	"toJSON":     {"v"},
	"fromJSON":   {"string"},
	"toBase64":   {"string"},
	"fromBase64": {"string"},
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the innermost call whose argument list holds the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the unclosed '(' left of cursor and the name
// written before it, counting top-level commas to find the argument index.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	depth := 0
	open := -1

scan:
	for i := cursor; i > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')', ']':
			depth++
		case '(', '[':
			if depth == 0 {
				if r == '(' {
					open = i
				}

				break scan
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '.' && r != '_' && r != '-' &&
			(r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" {
		return functionCall{}
	}

	arg := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				arg++
			}
		}
	}

	return functionCall{name: name, argIndex: arg, inCall: true}
}

// signatureOf describes the parameters of the function bound to name.
// It reports false when name is unbound or not callable.
func signatureOf(s *Session, name string) ([]string, bool) {
	if params, ok := exprParams[name]; ok {
		return params, true
	}

	v, err := s.Lookup(name)
	if err != nil {
		return nil, false
	}

	switch v := v.(type) {
	case lang.Func:
		return []string{"...args"}, true

	case lang.Quote:
		if call, ok := v.Expr().(*lang.Call); ok {
			if sym, ok := call.Callee.(*lang.Symbol); ok {
				return signatureOf(s, sym.Name)
			}
		}

		return nil, false
	}

	t := reflect.TypeOf(v)
	if t == nil || t.Kind() != reflect.Func {
		return nil, false
	}

	params := make([]string, t.NumIn())
	for i := range params {
		if t.IsVariadic() && i == len(params)-1 {
			params[i] = "..." + formatTypeName(t.In(i).Elem())
		} else {
			params[i] = formatTypeName(t.In(i))
		}
	}

	return params, true
}

// formatTypeName returns a short readable name for a parameter type.
func formatTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Func:
		return "func"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "uint"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	case reflect.Slice:
		return "[]" + formatTypeName(t.Elem())
	case reflect.Map:
		return "map"
	case reflect.Interface:
		return "any"
	case reflect.Pointer:
		return formatTypeName(t.Elem())
	default:
		if t.Name() != "" {
			return t.Name()
		}

		return "arg"
	}
}

// renderSignatureHint renders name(params) with the parameter at arg
// highlighted. A variadic parameter stays highlighted past its index.
func renderSignatureHint(name string, params []string, arg int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(p, "...")
		if arg == i || (variadic && arg > i) {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
