package lang

import (
	"log/slog"
	"maps"
	"sync/atomic"
)

// Scope is one frame of a lexical scope chain: a set of name bindings plus an
// optional parent consulted when a name is not bound locally.
//
// A Scope is mutable only until it is frozen. Freezing a scope freezes its
// whole parent chain, so once [Capture] has bundled a scope, neither it nor
// any ancestor accepts new bindings and the chain may be shared freely
// between goroutines.
type Scope struct {
	vars   map[string]any
	parent *Scope
	frozen atomic.Bool
}

// NewScope creates an empty scope whose lookups fall through to parent.
// A nil parent creates a root scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{vars: make(map[string]any), parent: parent}
}

// ScopeFrom creates a scope holding a copy of vars.
func ScopeFrom(vars map[string]any, parent *Scope) *Scope {
	s := NewScope(parent)
	maps.Copy(s.vars, vars)

	return s
}

// Bind binds name to value in the local frame, replacing any earlier local
// binding of name. It fails with [ErrScopeFrozen] once s is frozen.
func (s *Scope) Bind(name string, value any) error {
	if s.frozen.Load() {
		return ErrScopeFrozen.With(slog.String("name", name))
	}

	s.vars[name] = value

	return nil
}

// Lookup resolves name in the local frame, then in each ancestor.
// It fails with [ErrUnboundSymbol] when no frame binds name.
func (s *Scope) Lookup(name string) (any, error) {
	for f := s; f != nil; f = f.parent {
		if v, ok := f.vars[name]; ok {
			return v, nil
		}
	}

	return nil, ErrUnboundSymbol.With(slog.String("name", name))
}

// Has reports whether name is bound anywhere in the chain.
func (s *Scope) Has(name string) bool {
	for f := s; f != nil; f = f.parent {
		if _, ok := f.vars[name]; ok {
			return true
		}
	}

	return false
}

// local returns the binding of name in the local frame only.
func (s *Scope) local(name string) (any, bool) {
	if s == nil {
		return nil, false
	}

	v, ok := s.vars[name]

	return v, ok
}

// Names returns every name visible from s, sorted, without duplicates.
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})

	for f := s; f != nil; f = f.parent {
		for name := range f.vars {
			seen[name] = struct{}{}
		}
	}

	return sortedKeys(seen)
}

// Parent returns the enclosing scope, or nil for a root scope.
func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}

	return s.parent
}

// Freeze makes s and every ancestor immutable. Freezing is idempotent.
func (s *Scope) Freeze() *Scope {
	for f := s; f != nil; f = f.parent {
		f.frozen.Store(true)
	}

	return s
}

// Frozen reports whether s is immutable.
func (s *Scope) Frozen() bool { return s.frozen.Load() }

// Len returns the number of bindings in the local frame.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}

	return len(s.vars)
}

// Layer returns an immutable view that resolves names in mask's local frame
// first, then through base's chain. Neither argument is modified, and base
// is left unfrozen. A nil mask returns base unchanged.
func Layer(mask, base *Scope) *Scope {
	if mask == nil {
		return base
	}

	s := ScopeFrom(mask.vars, base)
	s.frozen.Store(true)

	return s
}

// LogValue implements [slog.LogValuer].
func (s *Scope) LogValue() slog.Value {
	if s == nil {
		return slog.StringValue("<nil>")
	}

	depth := 0
	for f := s.parent; f != nil; f = f.parent {
		depth++
	}

	return slog.GroupValue(
		slog.Any("names", sortedKeys(s.vars)),
		slog.Int("parents", depth),
		slog.Bool("frozen", s.Frozen()),
	)
}
