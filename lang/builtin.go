package lang

// This file defines the root scope of host functions available to every
// quote whose scope chain ends in [Builtins]. The scope is built once per
// process and frozen, so it is shared by all callers.

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/ardnew/mung"
	exprbuiltin "github.com/expr-lang/expr/builtin"
	exprruntime "github.com/expr-lang/expr/vm/runtime"
	"github.com/goccy/go-yaml"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	builtinsOnce  sync.Once
	builtinsScope *Scope
)

// Builtins returns the frozen root scope of host functions: arithmetic and
// comparison operators with their word aliases, logical forms, sequence
// constructors, every expr-lang builtin function, and a few host helpers.
//
// Quotes resolve builtins only when their scope chain ends in this scope:
//
//	s := lang.NewScope(lang.Builtins())
func Builtins() *Scope {
	builtinsOnce.Do(func() {
		vars := make(map[string]any)

		maps.Copy(vars, expressionFuncs())
		maps.Copy(vars, operatorFuncs())
		maps.Copy(vars, sequenceFuncs())
		maps.Copy(vars, hostFuncs())

		builtinsScope = ScopeFrom(vars, nil).Freeze()
	})

	return builtinsScope
}

// BuiltinNames returns the sorted names bound in [Builtins].
func BuiltinNames() []string { return Builtins().Names() }

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

func operatorFuncs() map[string]any {
	add := fold("+", exprruntime.Add, identity)
	sub := fold("-", exprruntime.Subtract, exprruntime.Negate)
	mul := fold("*", exprruntime.Multiply, identity)
	div := binary("/", func(a, b any) any { return exprruntime.Divide(a, b) })
	mod := binary("%", func(a, b any) any { return exprruntime.Modulo(a, b) })
	pow := binary("**", func(a, b any) any { return exprruntime.Exponent(a, b) })
	eq := binary("==", func(a, b any) any { return exprruntime.Equal(a, b) })
	ne := binary("!=", func(a, b any) any { return !exprruntime.Equal(a, b) })
	lt := binary("<", func(a, b any) any { return exprruntime.Less(a, b) })
	le := binary("<=", func(a, b any) any { return exprruntime.LessOrEqual(a, b) })
	gt := binary(">", func(a, b any) any { return exprruntime.More(a, b) })
	ge := binary(">=", func(a, b any) any { return exprruntime.MoreOrEqual(a, b) })
	not := unary("!", func(a any) any { return !truthy(a) })

	return map[string]any{
		"+": add, "add": add,
		"-": sub, "sub": sub,
		"*": mul, "mul": mul,
		"/": div, "div": div,
		"%": mod, "mod": mod,
		"**": pow, "^": pow, "pow": pow,
		"==": eq, "eq": eq,
		"!=": ne, "ne": ne,
		"<": lt, "lt": lt,
		"<=": le, "le": le,
		">": gt, "gt": gt,
		">=": ge, "ge": ge,
		"!": not, "not": not,
		"and": Func(logicalAnd), "&&": Func(logicalAnd),
		"or": Func(logicalOr), "||": Func(logicalOr),
		"if":  Func(conditional),
		"??":  Func(coalesce),
		"in":  binary("in", func(a, b any) any { return exprruntime.In(a, b) }),
		"..":  binary("..", intRange),
		"get": binary("get", fetch),

		"contains":   binary("contains", stringOp(strings.Contains)),
		"startsWith": binary("startsWith", stringOp(strings.HasPrefix)),
		"endsWith":   binary("endsWith", stringOp(strings.HasSuffix)),
		"matches": binary("matches", stringOp(func(s, pattern string) bool {
			return regexp.MustCompile(pattern).MatchString(s)
		})),
	}
}

func stringOp(op func(a, b string) bool) func(a, b any) any {
	return func(a, b any) any {
		return op(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func identity(a any) any { return a }

// truthy reports false for nil and false, and true for every other value.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false

	case bool:
		return v

	default:
		return true
	}
}

func positional(name string, args Args, lo, hi int) ([]any, error) {
	if err := positionalOnly(name, args); err != nil {
		return nil, err
	}

	if len(args) < lo || (hi >= 0 && len(args) > hi) {
		return nil, ErrInvalidArgument.With(
			slog.String("name", name),
			slog.Int("got", len(args)),
		)
	}

	return args.Values(), nil
}

// fold applies op left to right across two or more operands, or single to a
// lone operand.
func fold(name string, op func(a, b any) any, single func(a any) any) Func {
	return func(_ context.Context, args Args) (any, error) {
		vals, err := positional(name, args, 1, -1)
		if err != nil {
			return nil, err
		}

		if len(vals) == 1 {
			return single(vals[0]), nil
		}

		acc := vals[0]
		for _, v := range vals[1:] {
			acc = op(acc, v)
		}

		return acc, nil
	}
}

func binary(name string, op func(a, b any) any) Func {
	return func(_ context.Context, args Args) (any, error) {
		vals, err := positional(name, args, 2, 2)
		if err != nil {
			return nil, err
		}

		return op(vals[0], vals[1]), nil
	}
}

func unary(name string, op func(a any) any) Func {
	return func(_ context.Context, args Args) (any, error) {
		vals, err := positional(name, args, 1, 1)
		if err != nil {
			return nil, err
		}

		return op(vals[0]), nil
	}
}

func logicalAnd(_ context.Context, args Args) (any, error) {
	vals, err := positional("and", args, 0, -1)
	if err != nil {
		return nil, err
	}

	for _, v := range vals {
		if !truthy(v) {
			return false, nil
		}
	}

	return true, nil
}

func logicalOr(_ context.Context, args Args) (any, error) {
	vals, err := positional("or", args, 0, -1)
	if err != nil {
		return nil, err
	}

	for _, v := range vals {
		if truthy(v) {
			return true, nil
		}
	}

	return false, nil
}

func conditional(_ context.Context, args Args) (any, error) {
	vals, err := positional("if", args, 2, 3)
	if err != nil {
		return nil, err
	}

	if truthy(vals[0]) {
		return vals[1], nil
	}

	if len(vals) == 3 {
		return vals[2], nil
	}

	return nil, nil
}

func coalesce(_ context.Context, args Args) (any, error) {
	for _, a := range args {
		if a.Value != nil {
			return a.Value, nil
		}
	}

	return nil, nil
}

func intRange(a, b any) any {
	lo, hi := exprruntime.ToInt(a), exprruntime.ToInt(b)
	if hi < lo {
		return []int{}
	}

	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}

	return out
}

// fetch indexes labelled sequences by name or position, and defers every
// other container to expr-lang.
func fetch(from, key any) any {
	switch from := from.(type) {
	case Args:
		if name, ok := key.(string); ok {
			v, _ := from.Get(name)

			return v
		}

		i := exprruntime.ToInt(key)
		if i < 0 {
			i += len(from)
		}

		if i < 0 || i >= len(from) {
			panic(fmt.Sprintf("index out of range: %v", key))
		}

		return from[i].Value

	case yaml.MapSlice:
		for _, item := range from {
			if mapKey(item.Key) == fmt.Sprint(key) {
				return item.Value
			}
		}

		return nil
	}

	return exprruntime.Fetch(from, key)
}

// ---------------------------------------------------------------------------
// Sequences
// ---------------------------------------------------------------------------

func sequenceFuncs() map[string]any {
	return map[string]any{
		"list": Func(func(_ context.Context, args Args) (any, error) {
			return append(Args(nil), args...), nil
		}),
		"array": Func(func(_ context.Context, args Args) (any, error) {
			return positional("array", args, 0, -1)
		}),
		"names": Func(func(_ context.Context, args Args) (any, error) {
			vals, err := positional("names", args, 1, 1)
			if err != nil {
				return nil, err
			}

			return namesOf(vals[0])
		}),
	}
}

func namesOf(v any) ([]string, error) {
	switch v := v.(type) {
	case Args:
		return v.Names(), nil

	case yaml.MapSlice:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = mapKey(item.Key)
		}

		return out, nil

	case map[string]any:
		return sortedKeys(v), nil

	case *Scope:
		return v.Names(), nil

	default:
		return nil, ErrInvalidArgument.With(
			slog.String("name", "names"),
			slog.String("got", resultTypeName(v)),
		)
	}
}

// ---------------------------------------------------------------------------
// expr-lang builtin functions
// ---------------------------------------------------------------------------

// expressionFuncs adapts the expr-lang builtin functions that can be called
// directly with evaluated arguments. Predicate builtins such as filter and
// map take closures and are omitted.
func expressionFuncs() map[string]any {
	funcs := make(map[string]any, len(exprbuiltin.Builtins))

	for _, fn := range exprbuiltin.Builtins {
		switch {
		case fn.Fast != nil:
			fast := fn.Fast
			funcs[fn.Name] = unary(fn.Name, fast)

		case fn.Func != nil:
			funcs[fn.Name] = fn.Func
		}
	}

	return funcs
}

// ---------------------------------------------------------------------------
// Host helpers
// ---------------------------------------------------------------------------

func hostFuncs() map[string]any {
	return map[string]any{
		"env":         Func(processEnv),
		"cwd":         getCwd,
		"platform":    getPlatform(),
		"path.abs":    pathAbs,
		"path.cat":    pathCat,
		"mung.prefix": mungPrefix,
	}
}

// processEnv returns the value of one environment variable, or every
// variable as a map when called without arguments.
func processEnv(_ context.Context, args Args) (any, error) {
	vals, err := positional("env", args, 0, 1)
	if err != nil {
		return nil, err
	}

	if len(vals) == 1 {
		key, ok := vals[0].(string)
		if !ok {
			return nil, ErrInvalidArgument.With(
				slog.String("name", "env"),
				slog.String("got", resultTypeName(vals[0])),
			)
		}

		return os.Getenv(key), nil
	}

	env := make(map[string]any)

	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok {
			env[key] = value
		}
	}

	return env, nil
}

// getPlatform returns the host target using Go conventions.
func getPlatform() string {
	o, ok := os.LookupEnv("GOHOSTOS")
	if !ok {
		o = runtime.GOOS
	}

	a, ok := os.LookupEnv("GOHOSTARCH")
	if !ok {
		a = runtime.GOARCH
	}

	return o + "/" + a
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathCat(elem ...string) string {
	return filepath.Join(elem...)
}

func mungPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}
