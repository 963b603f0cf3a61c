package lang

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestFormatTree(t *testing.T) {
	n := NewCall(NewSymbol("f"),
		Positional(NewUnquote(NewSymbol("x"))),
		Named("k", NewLiteral(1)),
	)

	var buf bytes.Buffer
	if err := FormatTree(&buf, n, 2); err != nil {
		t.Fatalf("FormatTree failed: %v", err)
	}

	want := strings.Join([]string{
		"Call",
		"  callee: Symbol f",
		"  Unquote",
		"    Symbol x",
		"  k: Literal 1",
		"",
	}, "\n")

	if buf.String() != want {
		t.Errorf("FormatTree =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestFormatJSON(t *testing.T) {
	n := NewCall(NewSymbol("f"), Named("k", NewSplice(NewSymbol("xs"))))

	var buf bytes.Buffer
	if err := FormatJSON(t.Context(), &buf, n, 0); err != nil {
		t.Fatalf("FormatJSON failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	callee, _ := got["call"].(map[string]any)
	if callee["symbol"] != "f" {
		t.Errorf("callee = %v", got["call"])
	}

	args, _ := got["args"].([]any)
	if len(args) != 1 {
		t.Fatalf("args = %v", got["args"])
	}

	arg, _ := args[0].(map[string]any)
	if arg["name"] != "k" {
		t.Errorf("arg name = %v", arg["name"])
	}

	value, _ := arg["value"].(map[string]any)
	if _, ok := value["splice"]; !ok {
		t.Errorf("arg value = %v", arg["value"])
	}
}

func TestFormatYAML(t *testing.T) {
	var buf bytes.Buffer

	result := Args{{Name: "a", Value: 1}, {Name: "b", Value: "x"}}
	if err := FormatYAML(t.Context(), &buf, result, 2); err != nil {
		t.Fatalf("FormatYAML failed: %v", err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML %q: %v", buf.String(), err)
	}

	if got["b"] != "x" || len(got) != 2 {
		t.Errorf("FormatYAML = %v", got)
	}
}

func TestNativeValue(t *testing.T) {
	q := Capture(Apply("f", NewSymbol("x")), nil)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"scalar", 1, 1},
		{"quote", q, "f(x)"},
		{"syntax", Node(NewSymbol("x")), "x"},
		{"function", func() {}, "<function>"},
		{"positional args", Args{{Value: 1}, {Name: "a", Value: 2}}, []any{1, 2}},
		{"named args", Args{{Name: "a", Value: 1}}, map[string]any{"a": 1}},
		{"map slice", yaml.MapSlice{{Key: "k", Value: q}}, map[string]any{"k": "f(x)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NativeValue(tt.in)
			if !Equal(NewLiteral(got), NewLiteral(tt.want)) {
				t.Errorf("NativeValue = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestQuote_MarshalJSON(t *testing.T) {
	q := Capture(NewLiteral(Capture(NewSymbol("v"), nil)), nil)

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"literal":{"quote":{"symbol":"v"}}}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}
