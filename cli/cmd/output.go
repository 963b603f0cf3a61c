package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/quasi/lang"
)

// Output selects how results are printed.
type Output struct {
	Output string `default:"text" enum:"text,json,yaml" help:"Result format (${enum})." short:"o"`
	Indent int    `default:"2"                          help:"Indent width for json and yaml."`
}

// write prints v in the selected format.
func (o Output) write(ctx context.Context, w io.Writer, v any) error {
	var err error

	switch o.Output {
	case "json":
		err = lang.FormatJSON(ctx, w, v, o.Indent)
	case "yaml":
		err = lang.FormatYAML(ctx, w, v, o.Indent)
	default:
		_, err = fmt.Fprintln(w, formatText(v))
	}

	if err != nil {
		return ErrWriteOutput.With(slog.String("format", o.Output)).Wrap(err)
	}

	return nil
}

// formatText renders v in expression syntax, except that strings print
// without quotes.
func formatText(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case lang.Quote:
		return v.String()
	case lang.Node:
		return v.String()
	default:
		return lang.NewLiteral(v).String()
	}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}

	return fmt.Sprintf("%T", v)
}
