package lang

import (
	"encoding/json"
	"reflect"

	"github.com/goccy/go-yaml"
)

// ToNative converts an expression tree to nested maps and slices suitable
// for JSON or YAML encoding. Each node becomes a single-key map naming its
// kind, except calls, which carry "call" and "args" keys.
func ToNative(n Node) any {
	switch n := n.(type) {
	case nil:
		return nil

	case *Literal:
		return map[string]any{"literal": literalNative(n.Value)}

	case *Symbol:
		return map[string]any{"symbol": n.Name}

	case *Call:
		args := make([]any, len(n.Args))

		for i, a := range n.Args {
			arg := map[string]any{"value": ToNative(a.Value)}
			if a.Name != "" {
				arg["name"] = a.Name
			}

			args[i] = arg
		}

		return map[string]any{"call": ToNative(n.Callee), "args": args}

	case *Unquote:
		return map[string]any{"unquote": ToNative(n.Inner)}

	case *Splice:
		return map[string]any{"splice": ToNative(n.Inner)}

	case *DefinitionArg:
		return map[string]any{"define": map[string]any{
			"name":  ToNative(n.Name),
			"value": ToNative(n.Value),
		}}

	default:
		return nil
	}
}

func literalNative(v any) any {
	switch v := v.(type) {
	case Quote:
		return map[string]any{"quote": ToNative(v.expr)}

	case Node:
		return map[string]any{"syntax": ToNative(v)}

	default:
		return NativeValue(v)
	}
}

// NativeValue converts an evaluation result to plain data. Labelled
// sequences whose elements are all named become maps, other sequences become
// slices, quotes and syntax become their surface text, and functions become
// the string "<function>".
func NativeValue(v any) any {
	switch v := v.(type) {
	case nil, bool, string, int, int64, float64:
		return v

	case Quote:
		return v.String()

	case Node:
		return v.String()

	case *Scope:
		return v.Names()

	case Args:
		if len(v.Names()) == len(v) && len(v) > 0 {
			m := make(map[string]any, len(v))
			for _, a := range v {
				m[a.Name] = NativeValue(a.Value)
			}

			return m
		}

		out := make([]any, len(v))
		for i, a := range v {
			out[i] = NativeValue(a.Value)
		}

		return out

	case yaml.MapSlice:
		m := make(map[string]any, len(v))
		for _, item := range v {
			m[mapKey(item.Key)] = NativeValue(item.Value)
		}

		return m

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = NativeValue(e)
		}

		return out

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = NativeValue(e)
		}

		return out
	}

	if reflect.ValueOf(v).Kind() == reflect.Func {
		return "<function>"
	}

	return v
}

// MarshalJSON implements json.Marshaler for Quote.
func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToNative(q.expr))
}

// MarshalYAML implements yaml.BytesMarshaler for Quote.
func (q Quote) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(ToNative(q.expr))
}
