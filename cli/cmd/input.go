package cmd

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/quasi/lang"
	"github.com/ardnew/quasi/log"
)

// Input selects where an expression is read from.
type Input struct {
	Expr string `arg:"" help:"Expression source, or '-' for standard input. Defaults to the --source files." name:"expr" optional:""`
}

// read returns the expression source: the argument when given, else the
// global --source files, else standard input.
func (in Input) read(ctx context.Context) (string, error) {
	var r io.Reader

	switch {
	case in.Expr == stdinSource:
		r = stdinFrom(ctx)
	case in.Expr != "":
		return in.Expr, nil
	default:
		if src := sourceFilesFrom(ctx); src != nil {
			r = src
		} else {
			r = stdinFrom(ctx)
		}
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	buf, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	src := strings.TrimSpace(string(buf))
	if src == "" {
		return "", ErrEmptyInput
	}

	return src, nil
}

// parse reads and parses the expression. Names bound in names may contain
// hyphens.
func (in Input) parse(ctx context.Context, names *lang.Scope) (lang.Node, error) {
	src, err := in.read(ctx)
	if err != nil {
		return nil, err
	}

	opts := []lang.Option{lang.WithLogger(log.Default())}
	if names != nil {
		opts = append(opts, lang.WithNames(names))
	}

	return lang.ParseString(ctx, src, opts...)
}

// Engine holds the flags that configure expansion and evaluation.
type Engine struct {
	MaxDepth   int  `default:"1000" help:"Maximum expression nesting during parse, expansion, and evaluation."`
	StrictMask bool `               help:"Let data masks shadow names bound in the captured scope."`
}

func (f Engine) engine() *lang.Engine {
	return lang.NewEngine(
		lang.WithLogger(log.Default()),
		lang.WithMaxDepth(f.MaxDepth),
		lang.WithStrictMask(f.StrictMask),
	)
}

// Environment holds the flags that build the capture scope.
type Environment struct {
	Bind    []string `help:"Bind NAME=EXPR in the capture scope (repeatable)." placeholder:"NAME=EXPR" sep:"none" short:"b"`
	Dataset string   `help:"YAML or JSON file with bind, quotes, and rows sections." placeholder:"FILE" short:"f" type:"existingfile"`
}

// scope returns the capture scope and the dataset it was built from, if any.
// Flag bindings are layered over the dataset's bindings.
func (f Environment) scope(ctx context.Context) (*lang.Scope, *Dataset, error) {
	var (
		ds    *Dataset
		scope = lang.Builtins()
		err   error
	)

	if f.Dataset != "" {
		ds, err = LoadDataset(ctx, f.Dataset)
		if err != nil {
			return nil, nil, err
		}

		scope, err = ds.Scope(ctx, scope)
		if err != nil {
			return nil, nil, ErrReadDataset.With(slog.String("path", f.Dataset)).Wrap(err)
		}
	}

	if len(f.Bind) == 0 {
		return scope, ds, nil
	}

	bound, err := bindAll(ctx, f.Bind, lang.NewScope(scope))

	return bound, ds, err
}

// bindAll binds each NAME=EXPR in s.
func bindAll(ctx context.Context, bindings []string, s *lang.Scope) (*lang.Scope, error) {
	for _, kv := range bindings {
		name, value, err := parseBinding(ctx, kv)
		if err != nil {
			return nil, err
		}

		if err := s.Bind(name, value); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// parseBinding splits NAME=EXPR and evaluates EXPR over the builtins.
// An EXPR that does not parse or evaluate is bound as its raw text, so
// --bind user=alice binds the string "alice".
func parseBinding(ctx context.Context, kv string) (string, any, error) {
	name, src, ok := strings.Cut(kv, "=")

	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, ErrInvalidBinding.With(slog.String("binding", kv))
	}

	return name, valueOf(ctx, src), nil
}

func valueOf(ctx context.Context, src string) any {
	n, err := lang.ParseString(ctx, src)
	if err != nil {
		return src
	}

	v, err := lang.Evaluate(ctx, lang.Capture(n, lang.Builtins()), nil)
	if err != nil {
		return src
	}

	return v
}

// mask returns a data mask binding each NAME=EXPR, or nil when there are
// none.
func mask(ctx context.Context, bindings []string) (*lang.Scope, error) {
	if len(bindings) == 0 {
		return nil, nil
	}

	return bindAll(ctx, bindings, lang.NewScope(nil))
}
