package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/quasi/lang"
)

// Dataset is the content of a --dataset file:
//
//	bind:            # names bound in the capture scope
//	  rate: 0.08
//	quotes:          # expressions captured in the bind scope
//	  taxed: price * (1 + rate)
//	rows:            # one data mask per row
//	  - {price: 10, qty: 2}
//	  - {price: 4,  qty: 5}
//
// Mappings keep their file order. JSON is accepted as a subset of YAML.
type Dataset struct {
	Bind   yaml.MapSlice   `yaml:"bind"`
	Quotes yaml.MapSlice   `yaml:"quotes"`
	Rows   []yaml.MapSlice `yaml:"rows"`
}

// LoadDataset reads the dataset file at path.
func LoadDataset(ctx context.Context, path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadDataset.With(slog.String("path", path)).Wrap(err)
	}
	defer f.Close()

	ds, err := ReadDataset(ctx, f)
	if err != nil {
		return nil, ErrReadDataset.With(slog.String("path", path)).Wrap(err)
	}

	return ds, nil
}

// ReadDataset decodes a dataset from r. Empty input is an empty dataset.
func ReadDataset(ctx context.Context, r io.Reader) (*Dataset, error) {
	var ds Dataset

	err := yaml.NewDecoder(r, yaml.UseOrderedMap()).DecodeContext(ctx, &ds)
	if err != nil && err != io.EOF {
		return nil, err
	}

	return &ds, nil
}

// Scope returns the capture scope described by the dataset over parent.
//
// Bindings go in a child of parent. When the dataset has quotes, each is
// parsed with the bindings as hyphenated names, captured in the binding
// scope, and bound in a further child scope, which is returned.
func (d *Dataset) Scope(ctx context.Context, parent *lang.Scope) (*lang.Scope, error) {
	bound := lang.NewScope(parent)

	for _, item := range d.Bind {
		if err := bound.Bind(keyString(item.Key), normalize(item.Value)); err != nil {
			return nil, err
		}
	}

	if len(d.Quotes) == 0 {
		return bound, nil
	}

	quotes := lang.NewScope(bound)

	for _, item := range d.Quotes {
		name := keyString(item.Key)

		src, ok := item.Value.(string)
		if !ok {
			src = fmt.Sprint(item.Value)
		}

		n, err := lang.ParseString(ctx, src, lang.WithNames(bound))
		if err != nil {
			return nil, lang.WrapError(err).With(slog.String("quote", name))
		}

		if err := quotes.Bind(name, lang.Capture(n, bound)); err != nil {
			return nil, err
		}
	}

	return quotes, nil
}

// Masks returns one data mask per row.
func (d *Dataset) Masks() ([]*lang.Scope, error) {
	masks := make([]*lang.Scope, len(d.Rows))

	for i, row := range d.Rows {
		m := lang.NewScope(nil)

		for _, item := range row {
			if err := m.Bind(keyString(item.Key), normalize(item.Value)); err != nil {
				return nil, err
			}
		}

		masks[i] = m.Freeze()
	}

	return masks, nil
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}

	return fmt.Sprint(k)
}

// normalize converts decoded YAML integers to int so values mix freely
// with integer literals from expressions.
func normalize(v any) any {
	switch v := v.(type) {
	case int64:
		if v >= math.MinInt && v <= math.MaxInt {
			return int(v)
		}

	case uint64:
		if v <= math.MaxInt {
			return int(v)
		}

	case []any:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = normalize(x)
		}

		return out

	case yaml.MapSlice:
		out := make(yaml.MapSlice, len(v))
		for i, item := range v {
			out[i] = yaml.MapItem{Key: item.Key, Value: normalize(item.Value)}
		}

		return out
	}

	return v
}
