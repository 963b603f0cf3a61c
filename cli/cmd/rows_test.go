package cmd

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ardnew/quasi/lang"
)

func TestRows_Run(t *testing.T) {
	dataset := writeFile(t, t.TempDir(), "data.yaml", testDataset)

	for _, jobs := range []int{1, 4} {
		cmd := Rows{
			Input:       Input{Expr: "!!doubled + qty"},
			Environment: Environment{Dataset: dataset},
			Engine:      defaultEngine(),
			Output:      textOutput(),
			Jobs:        jobs,
		}

		got, err := run(t, t.Context(), &cmd)
		if err != nil {
			t.Fatalf("jobs=%d: Run failed: %v", jobs, err)
		}

		if want := "21\n11\n-2\n"; got != want {
			t.Errorf("jobs=%d: output = %q, want %q", jobs, got, want)
		}
	}
}

func TestRows_RunJSON(t *testing.T) {
	dataset := writeFile(t, t.TempDir(), "data.yaml", testDataset)

	cmd := Rows{
		Input:       Input{Expr: "price"},
		Environment: Environment{Dataset: dataset},
		Engine:      defaultEngine(),
		Output:      Output{Output: "json"},
		Jobs:        2,
	}

	got, err := run(t, t.Context(), &cmd)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var v []int
	if err := json.Unmarshal([]byte(got), &v); err != nil {
		t.Fatalf("output %q is not JSON: %v", got, err)
	}

	if len(v) != 3 || v[0] != 10 || v[1] != 4 || v[2] != -1 {
		t.Errorf("output = %v", v)
	}
}

func TestRows_NoDataset(t *testing.T) {
	cmd := Rows{Input: Input{Expr: "1"}, Engine: defaultEngine(), Output: textOutput()}

	if _, err := run(t, t.Context(), &cmd); !errors.Is(err, ErrNoDataset) {
		t.Errorf("expected ErrNoDataset, got %v", err)
	}
}

func TestRows_RowError(t *testing.T) {
	dataset := writeFile(t, t.TempDir(), "data.yaml", testDataset)

	cmd := Rows{
		Input:       Input{Expr: "tags"},
		Environment: Environment{Dataset: dataset},
		Engine:      defaultEngine(),
		Output:      textOutput(),
	}

	_, err := run(t, t.Context(), &cmd)
	if !errors.Is(err, ErrRow) || !errors.Is(err, lang.ErrUnboundSymbol) {
		t.Errorf("expected ErrRow wrapping lang.ErrUnboundSymbol, got %v", err)
	}
}
