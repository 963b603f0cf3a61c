package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/quasi/lang"
)

func TestFmt_Text(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a+b*2", "(a + (b * 2))\n"},
		{"f(x, define(k, 1))", "f(x, define(k, 1))\n"},
		{`f(define("k", 1))`, "f(k = 1)\n"},
		{"!!q", "!!q\n"},
		{"g(!!!xs)", "g(!!!xs)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := run(t, t.Context(), &Text{Input: Input{Expr: tt.input}})
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmt_JSON(t *testing.T) {
	got, err := run(t, t.Context(), &JSONTree{Input: Input{Expr: "f(1, !!x)"}, Indent: 2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !json.Valid([]byte(got)) {
		t.Errorf("output is not JSON: %q", got)
	}
}

func TestFmt_YAML(t *testing.T) {
	got, err := run(t, t.Context(), &YAMLTree{Input: Input{Expr: "f(1)"}, Indent: 2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if strings.TrimSpace(got) == "" {
		t.Error("empty output")
	}
}

func TestFmt_Tree(t *testing.T) {
	got, err := run(t, t.Context(), &Tree{Input: Input{Expr: "f(a, b)"}, Indent: 2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, want := range []string{"f", "a", "b"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
}

func TestFmt_ParseError(t *testing.T) {
	_, err := run(t, t.Context(), &Text{Input: Input{Expr: "f("}})
	if !errors.Is(err, lang.ErrParse) {
		t.Errorf("expected lang.ErrParse, got %v", err)
	}
}

func TestFmt_EmptyInput(t *testing.T) {
	_, err := run(t, t.Context(), &Text{})
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}
