package repl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/quasi/lang"
)

// Session is the state expressions typed at the prompt are evaluated in.
//
// Each line is parsed, captured in the session scope, expanded, and
// evaluated with the selected dataset row as its data mask. Bindings made
// at the prompt never modify a scope that has been captured; each one
// extends the session with a new child scope instead.
type Session struct {
	engine *lang.Engine
	scope  *lang.Scope
	masks  []*lang.Scope
	row    int
}

// NewSession returns a session over scope. A nil engine uses the defaults.
func NewSession(engine *lang.Engine, scope *lang.Scope, masks []*lang.Scope) *Session {
	if engine == nil {
		engine = lang.NewEngine()
	}

	if scope == nil {
		scope = lang.Builtins()
	}

	return &Session{engine: engine, scope: scope, masks: masks}
}

// Scope returns the current capture scope.
func (s *Session) Scope() *lang.Scope { return s.scope }

// Mask returns the selected row, or nil without a dataset.
func (s *Session) Mask() *lang.Scope {
	if len(s.masks) == 0 {
		return nil
	}

	return s.masks[s.row]
}

// Rows returns the number of dataset rows.
func (s *Session) Rows() int { return len(s.masks) }

// Row returns the selected row index.
func (s *Session) Row() int { return s.row }

// SelectRow makes row i the data mask.
func (s *Session) SelectRow(i int) error {
	if len(s.masks) == 0 {
		return ErrNoRows
	}

	if i < 0 || i >= len(s.masks) {
		return fmt.Errorf("%w: row %d of %d", ErrOutOfBounds, i, len(s.masks))
	}

	s.row = i

	return nil
}

// Names returns every name visible to an expression, row columns included.
func (s *Session) Names() []string {
	return lang.Layer(s.Mask(), s.scope).Names()
}

// Lookup resolves name the way a symbol in an expression would.
func (s *Session) Lookup(name string) (any, error) {
	return s.engine.Resolve(name, s.scope, s.Mask())
}

// Parse parses src. Visible names may contain hyphens.
func (s *Session) Parse(ctx context.Context, src string) (lang.Node, error) {
	return lang.ParseString(ctx, src,
		lang.WithLogger(s.engine.Logger()),
		lang.WithNames(lang.Layer(s.Mask(), s.scope)),
	)
}

// Capture parses src and captures it in the session scope.
func (s *Session) Capture(ctx context.Context, src string) (lang.Quote, error) {
	n, err := s.Parse(ctx, src)
	if err != nil {
		return lang.Quote{}, err
	}

	return lang.Capture(n, s.scope), nil
}

// Expand captures and expands src.
func (s *Session) Expand(ctx context.Context, src string) (lang.Quote, error) {
	q, err := s.Capture(ctx, src)
	if err != nil {
		return lang.Quote{}, err
	}

	return s.engine.Expand(ctx, q)
}

// Eval captures, expands, and evaluates src.
func (s *Session) Eval(ctx context.Context, src string) (any, error) {
	q, err := s.Expand(ctx, src)
	if err != nil {
		return nil, err
	}

	return s.engine.Evaluate(ctx, q, s.Mask())
}

// Bind evaluates src and binds its value to name.
func (s *Session) Bind(ctx context.Context, name, src string) (any, error) {
	v, err := s.Eval(ctx, src)
	if err != nil {
		return nil, err
	}

	return v, s.extend(name, v)
}

// Define captures src without evaluating it and binds the quote to name.
// Unquoting name later expands the quote in the scope it was defined in.
func (s *Session) Define(ctx context.Context, name, src string) (lang.Quote, error) {
	q, err := s.Capture(ctx, src)
	if err != nil {
		return lang.Quote{}, err
	}

	return q, s.extend(name, q)
}

func (s *Session) extend(name string, v any) error {
	child := lang.NewScope(s.scope)
	if err := child.Bind(name, v); err != nil {
		return err
	}

	s.scope = child

	s.engine.Logger().Trace("repl bind",
		slog.String("name", name),
		slog.Int("depth", depth(child)),
	)

	return nil
}

func depth(s *lang.Scope) int {
	n := 0
	for f := s; f != nil; f = f.Parent() {
		n++
	}

	return n
}
