package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// FormatTree writes n as an indented outline, one node per line.
func FormatTree(w io.Writer, n Node, indent int) error {
	return formatTree(w, "", n, indent, 0)
}

func formatTree(w io.Writer, label string, n Node, indent, depth int) error {
	pad := strings.Repeat(" ", indent*depth)
	if label != "" {
		label += ": "
	}

	var line string

	switch n := n.(type) {
	case nil:
		line = "<nil>"

	case *Literal:
		line = fmt.Sprintf("Literal %s", n.String())

	case *Symbol:
		line = fmt.Sprintf("Symbol %s", n.Name)

	default:
		line = n.Kind().String()
	}

	if _, err := fmt.Fprintln(w, pad+label+line); err != nil {
		return err
	}

	switch n := n.(type) {
	case *Call:
		if err := formatTree(w, "callee", n.Callee, indent, depth+1); err != nil {
			return err
		}

		for _, a := range n.Args {
			if err := formatTree(w, a.Name, a.Value, indent, depth+1); err != nil {
				return err
			}
		}

	case *Unquote:
		return formatTree(w, "", n.Inner, indent, depth+1)

	case *Splice:
		return formatTree(w, "", n.Inner, indent, depth+1)

	case *DefinitionArg:
		if err := formatTree(w, "name", n.Name, indent, depth+1); err != nil {
			return err
		}

		return formatTree(w, "value", n.Value, indent, depth+1)
	}

	return nil
}

// FormatJSON writes v as JSON to the writer. Nodes are converted with
// [ToNative] and other values with [NativeValue].
func FormatJSON(_ context.Context, w io.Writer, v any, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	data := native(v)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(data, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(data)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes v as YAML to the writer. Nodes are converted with
// [ToNative] and other values with [NativeValue].
func FormatYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, native(v), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

func native(v any) any {
	switch v := v.(type) {
	case Node:
		return ToNative(v)

	case Quote:
		return ToNative(v.expr)

	default:
		return NativeValue(v)
	}
}
