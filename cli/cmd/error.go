package cmd

import (
	"log/slog"
	"strings"
)

// Error is a command failure with attributes for structured logging.
// Refined copies made with [Error.With] and [Error.Wrap] still match their
// sentinel under [errors.Is].
type Error struct {
	msg      string
	err      error
	attrs    []slog.Attr
	sentinel *Error
}

// NewError returns a sentinel error.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.sentinel = e

	return e
}

func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	for _, a := range e.attrs {
		if a.Key == "path" || a.Key == "binding" || a.Key == "row" {
			part = append(part, a.Value.String())

			break
		}
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was refined from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.sentinel != nil && e.sentinel == t.sentinel
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...)

	return &c
}

var (
	ErrReadInput      = NewError("read expression")
	ErrEmptyInput     = NewError("empty expression")
	ErrReadDataset    = NewError("read dataset")
	ErrNoDataset      = NewError("no dataset (use --dataset)")
	ErrInvalidBinding = NewError("invalid binding (want NAME=EXPR)")
	ErrWriteOutput    = NewError("write output")
	ErrWriteConfig    = NewError("write configuration file")
	ErrFileExists     = NewError("file exists (use --force to overwrite)")
	ErrRow            = NewError("evaluate row")
)
