package lang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
)

// Arg is one evaluated call argument. An empty Name denotes a positional
// argument.
type Arg struct {
	Name  string
	Value any
}

// Args is an ordered list of evaluated call arguments. Args is also an
// ordered, labelled sequence accepted by [Splice].
type Args []Arg

// Func is a host function that receives its arguments with their names.
type Func func(ctx context.Context, args Args) (any, error)

// Get returns the value of the named argument.
func (a Args) Get(name string) (any, bool) {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].Name == name {
			return a[i].Value, true
		}
	}

	return nil, false
}

// Values returns the argument values in order, discarding names.
func (a Args) Values() []any {
	vals := make([]any, len(a))
	for i, arg := range a {
		vals[i] = arg.Value
	}

	return vals
}

// Names returns the names of the named arguments in order.
func (a Args) Names() []string {
	var names []string

	for _, arg := range a {
		if arg.Name != "" {
			names = append(names, arg.Name)
		}
	}

	return names
}

// Map returns the named arguments keyed by name.
func (a Args) Map() map[string]any {
	m := make(map[string]any, len(a))

	for _, arg := range a {
		if arg.Name != "" {
			m[arg.Name] = arg.Value
		}
	}

	return m
}

// named reports whether any argument carries a name.
func (a Args) named() (string, bool) {
	for _, arg := range a {
		if arg.Name != "" {
			return arg.Name, true
		}
	}

	return "", false
}

// dedupeArgs removes every named argument that is followed by another
// argument of the same name.
func dedupeArgs[T any](args []T, name func(T) string) []T {
	last := make(map[string]int)

	for i, a := range args {
		if n := name(a); n != "" {
			last[n] = i
		}
	}

	if len(last) == 0 {
		return args
	}

	out := make([]T, 0, len(args))

	for i, a := range args {
		if n := name(a); n == "" || last[n] == i {
			out = append(out, a)
		}
	}

	return out
}

var errorType = reflect.TypeFor[error]()

// invoke applies callee to args. Failures raised by the host function are
// reported as [ErrCallFailed] unless they already carry a [Kind].
func invoke(
	ctx context.Context,
	name string,
	callee any,
	args Args,
) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, ErrCallFailed.
				Wrap(fmt.Errorf("%v", r)).
				With(slog.String("name", name))
		}
	}()

	switch fn := callee.(type) {
	case Func:
		result, err = fn(ctx, args)

	case func(context.Context, Args) (any, error):
		result, err = fn(ctx, args)

	case func(...any) (any, error):
		if err = positionalOnly(name, args); err == nil {
			result, err = fn(args.Values()...)
		}

	case func(...any) any:
		if err = positionalOnly(name, args); err == nil {
			result = fn(args.Values()...)
		}

	default:
		if err = positionalOnly(name, args); err == nil {
			result, err = reflectCall(name, callee, args.Values())
		}
	}

	if err != nil {
		return nil, callError(name, err)
	}

	return result, nil
}

func callError(name string, err error) error {
	var e *Error
	if errors.As(err, &e) && e.Kind() != KindUnknown {
		return err
	}

	return ErrCallFailed.Wrap(err).With(slog.String("name", name))
}

func positionalOnly(name string, args Args) error {
	if arg, ok := args.named(); ok {
		return ErrInvalidArgument.With(
			slog.String("name", name),
			slog.String("argument", arg),
			slog.String("issue", "function does not accept named arguments"),
		)
	}

	return nil
}

// reflectCall calls an arbitrary Go function, converting each argument to
// the declared parameter type.
func reflectCall(name string, callee any, vals []any) (any, error) {
	fv := reflect.ValueOf(callee)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, ErrNotCallable.With(
			slog.String("name", name),
			slog.String("got", resultTypeName(callee)),
		)
	}

	ft := fv.Type()
	nin := ft.NumIn()

	if (!ft.IsVariadic() && len(vals) != nin) ||
		(ft.IsVariadic() && len(vals) < nin-1) {
		return nil, ErrInvalidArgument.With(
			slog.String("name", name),
			slog.Int("expected", nin),
			slog.Int("got", len(vals)),
		)
	}

	in := make([]reflect.Value, len(vals))

	for i, v := range vals {
		var pt reflect.Type

		switch {
		case ft.IsVariadic() && i >= nin-1:
			pt = ft.In(nin - 1).Elem()
		default:
			pt = ft.In(i)
		}

		av, err := convertArg(v, pt)
		if err != nil {
			return nil, ErrInvalidArgument.Wrap(err).With(
				slog.String("name", name),
				slog.Int("index", i),
			)
		}

		in[i] = av
	}

	out := fv.Call(in)

	switch len(out) {
	case 0:
		return nil, nil

	case 1:
		if ft.Out(0) == errorType {
			err, _ := out[0].Interface().(error)

			return nil, err
		}

		return out[0].Interface(), nil

	default:
		var err error
		if ft.Out(len(out)-1) == errorType {
			err, _ = out[len(out)-1].Interface().(error)
		}

		return out[0].Interface(), err
	}
}

func convertArg(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(v)

	switch {
	case rv.Type().AssignableTo(t):
		return rv, nil

	case isNumber(rv.Kind()) && isNumber(t.Kind()):
		return rv.Convert(t), nil

	case rv.Kind() == reflect.String && t.Kind() == reflect.String:
		return rv.Convert(t), nil

	case rv.Kind() == reflect.Slice && t.Kind() == reflect.Slice:
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())

		for i := range rv.Len() {
			ev, err := convertArg(rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}

			out.Index(i).Set(ev)
		}

		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", rv.Type(), t)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Float32, reflect.Float64:
		return true

	default:
		return false
	}
}
