package pkg

import (
	"fmt"
	"strings"
)

// Error is a chain of errors ordered from innermost to outermost.
// It reports failures preparing the CLI environment. Command failures are
// reported by cmd.Error and expression failures by lang.Error.
type Error []error

var (
	// ErrCreateDir reports a failure creating a per-user directory.
	ErrCreateDir = MakeErrorf("failed to create directory")
	// ErrReadConfig reports a configuration file that cannot be read or
	// decoded.
	ErrReadConfig = MakeErrorf("failed to read configuration")
)

// MakeError flattens errs into a chain. Nil errors are skipped.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf returns a single-link chain from a formatted message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error joins the chain with ": ", innermost first.
func (e Error) Error() string {
	parts := make([]string, 0, len(e))
	for _, err := range e {
		parts = append(parts, err.Error())
	}

	return strings.Join(parts, ": ")
}

// Wrap returns a new chain with errs appended.
func (e Error) Wrap(errs ...error) Error {
	out := make(Error, 0, len(e)+len(errs))
	out = append(out, e...)

	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}

	return out
}

// Wrapf returns a new chain with a formatted error appended.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap exposes the chain to [errors.Is] and [errors.As].
func (e Error) Unwrap() []error { return e }

// Is matches another chain whose links are a prefix of e.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i := range t {
		if e[i] != t[i] {
			return false
		}
	}

	return true
}

// UnwrapErrors flattens the chain below err, innermost first, followed by
// err itself.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	var chain Error

	switch e := err.(type) {
	case Error:
		return append(chain, e...)
	case interface{ Unwrap() []error }:
		for _, w := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(w)...)
		}
	case interface{ Unwrap() error }:
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
