package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/quasi/pkg"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files
// such as the one written by the init command:
//
//	log-level: debug
//	log-pretty: false
//	source:
//	  - ~/exprs/common.expr
//
// Nested mappings join their keys with hyphens, so the following is
// equivalent to the first two lines above:
//
//	log:
//	  level: debug
//	  pretty: false
//
// Keys may use underscores in place of hyphens. Command-line flags override
// file values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, pkg.ErrReadConfig.Wrap(err)
		}

		c := make(config, len(doc))
		c.flatten("", doc)

		return c, nil
	}
}

// config implements [kong.Resolver] over a flattened configuration file.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := v.(type) {
		case map[string]any:
			c.flatten(key, v)
		default:
			c[key] = scalar(v)
		}
	}
}

// scalar converts decoded numbers to the strings kong's mappers parse.
func scalar(v any) any {
	switch v := v.(type) {
	case int, int64, uint64:
		return fmt.Sprint(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil
}
