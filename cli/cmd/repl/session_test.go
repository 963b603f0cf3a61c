package repl

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/ardnew/quasi/lang"
)

func newTestSession(t *testing.T, rows ...map[string]any) *Session {
	t.Helper()

	scope := lang.NewScope(lang.Builtins())
	if err := scope.Bind("base", 10); err != nil {
		t.Fatal(err)
	}

	var masks []*lang.Scope
	for _, row := range rows {
		masks = append(masks, lang.ScopeFrom(row, nil).Freeze())
	}

	return NewSession(nil, scope, masks)
}

func TestSession_Eval(t *testing.T) {
	s := newTestSession(t)

	v, err := s.Eval(t.Context(), "base + 1")
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}

	if fmt.Sprint(v) != "11" {
		t.Errorf("Eval = %v, want 11", v)
	}
}

func TestSession_EvalUsesSelectedRow(t *testing.T) {
	s := newTestSession(t,
		map[string]any{"x": 1},
		map[string]any{"x": 2},
	)

	for i, want := range []string{"11", "12"} {
		if err := s.SelectRow(i); err != nil {
			t.Fatalf("SelectRow(%d) failed: %v", i, err)
		}

		v, err := s.Eval(t.Context(), "base + x")
		if err != nil {
			t.Fatalf("Eval failed: %v", err)
		}

		if fmt.Sprint(v) != want {
			t.Errorf("row %d: Eval = %v, want %s", i, v, want)
		}
	}
}

func TestSession_LookupMatchesEval(t *testing.T) {
	s := newTestSession(t, map[string]any{"base": 99, "x": 5})

	for _, name := range []string{"base", "x"} {
		got, err := s.Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", name, err)
		}

		v, err := s.Eval(t.Context(), name)
		if err != nil {
			t.Fatalf("Eval(%q) failed: %v", name, err)
		}

		if got != v {
			t.Errorf("Lookup(%q) = %v, Eval = %v", name, got, v)
		}
	}

	if v, _ := s.Lookup("base"); v != 10 {
		t.Errorf("row shadowed the capture frame: base = %v", v)
	}
}

func TestSession_SelectRow(t *testing.T) {
	s := newTestSession(t)
	if err := s.SelectRow(0); !errors.Is(err, ErrNoRows) {
		t.Errorf("SelectRow without rows: expected ErrNoRows, got %v", err)
	}

	s = newTestSession(t, map[string]any{"x": 1})
	if err := s.SelectRow(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SelectRow(1): expected ErrOutOfBounds, got %v", err)
	}

	if s.Row() != 0 {
		t.Errorf("Row = %d, want 0", s.Row())
	}
}

func TestSession_Bind(t *testing.T) {
	s := newTestSession(t)
	before := s.Scope()

	v, err := s.Bind(t.Context(), "y", "base * 2")
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	if fmt.Sprint(v) != "20" {
		t.Errorf("Bind = %v, want 20", v)
	}

	if before.Has("y") {
		t.Error("Bind modified the previous scope")
	}

	got, err := s.Eval(t.Context(), "y + 1")
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}

	if fmt.Sprint(got) != "21" {
		t.Errorf("Eval = %v, want 21", got)
	}
}

func TestSession_Define(t *testing.T) {
	s := newTestSession(t, map[string]any{"x": 5})

	q, err := s.Define(t.Context(), "inc", "x + 1")
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}

	if q.Scope() == nil {
		t.Error("Define returned a quote without a scope")
	}

	expanded, err := s.Expand(t.Context(), "!!inc * 2")
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	if lang.HasMarkers(expanded.Expr()) {
		t.Errorf("Expand left markers in %s", expanded)
	}

	v, err := s.Eval(t.Context(), "!!inc * 2")
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}

	if fmt.Sprint(v) != "12" {
		t.Errorf("Eval = %v, want 12", v)
	}
}

func TestSession_Names(t *testing.T) {
	s := newTestSession(t, map[string]any{"column": 1})

	names := s.Names()
	for _, want := range []string{"base", "column", "path.cat"} {
		if !slices.Contains(names, want) {
			t.Errorf("Names missing %q", want)
		}
	}
}

func TestSession_ParseError(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.Eval(t.Context(), "f("); !errors.Is(err, lang.ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}
