package cmd

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestError_Is(t *testing.T) {
	err := ErrReadDataset.With(slog.String("path", "d.yaml")).Wrap(io.ErrUnexpectedEOF)

	if !errors.Is(err, ErrReadDataset) {
		t.Error("refined error does not match its sentinel")
	}

	if errors.Is(err, ErrReadInput) {
		t.Error("refined error matches another sentinel")
	}

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("cause not reachable")
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrEmptyInput, "empty expression"},
		{ErrReadDataset.With(slog.String("path", "d.yaml")), "read dataset: d.yaml"},
		{ErrRow.With(slog.Int("row", 2)).Wrap(io.EOF), "evaluate row: 2: EOF"},
		{ErrWriteOutput.With(slog.String("format", "json")), "write output"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestError_WithDoesNotAlias(t *testing.T) {
	base := ErrInvalidBinding.With(slog.String("a", "1"))
	x := base.With(slog.String("binding", "x"))
	y := base.With(slog.String("binding", "y"))

	if x.Error() == y.Error() {
		t.Errorf("With shares attribute storage: %q", x.Error())
	}
}
