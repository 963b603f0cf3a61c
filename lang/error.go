package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Kind classifies an [Error] into one of the failure families reported by
// the expander and the evaluator.
type Kind int

const (
	// KindUnknown is the zero Kind.
	KindUnknown Kind = iota

	// KindStructural reports malformed marker placement, evaluation of an
	// unexpanded tree, or a tree deeper than the configured limit.
	KindStructural

	// KindName reports an unresolvable or illegal name.
	KindName

	// KindType reports a value of the wrong shape, such as a splice source
	// that is not a sequence.
	KindType

	// KindRuntime reports failures raised by host functions or I/O.
	KindRuntime
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "StructuralError"

	case KindName:
		return "NameError"

	case KindType:
		return "TypeError"

	case KindRuntime:
		return "RuntimeError"

	default:
		return "Unknown"
	}
}

// Category sentinels. Every error of the corresponding [Kind] matches its
// category with [errors.Is].
var (
	ErrStructural = newCategory(KindStructural)
	ErrNameError  = newCategory(KindName)
	ErrTypeError  = newCategory(KindType)
)

// Predefined errors (sentinel values).
var (
	ErrInvalidSpliceTarget = NewError(
		KindStructural, "splice outside of a call argument list",
	)
	ErrInvalidDefinitionTarget = NewError(
		KindStructural, "definition outside of a call argument list",
	)
	ErrUnexpandedMarker = NewError(
		KindStructural, "evaluated expression contains quasiquote markers",
	)
	ErrMaxDepthExceeded  = NewError(KindStructural, "maximum expression depth exceeded")
	ErrUnsupportedSyntax = NewError(KindStructural, "unsupported syntax")
	ErrUnboundSymbol     = NewError(KindName, "unbound symbol")
	ErrInvalidName       = NewError(KindName, "invalid argument name")
	ErrNotASequence      = NewError(KindType, "splice source is not a sequence")
	ErrNotCallable       = NewError(KindType, "callee is not a function")
	ErrInvalidArgument   = NewError(KindType, "invalid function argument")
	ErrCallFailed        = NewError(KindRuntime, "function call failed")
	ErrScopeFrozen       = NewError(KindRuntime, "scope is frozen")
	ErrParse             = NewError(KindRuntime, "parse error")
	ErrReadInput         = NewError(KindRuntime, "failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Refinements created with [Error.With] and [Error.Wrap] keep a reference to
// the sentinel they were derived from, so errors.Is(err, ErrUnboundSymbol)
// holds for every unbound symbol regardless of its attributes.
type Error struct {
	msg      string
	kind     Kind
	err      error       // Wrapped error (for errors.Unwrap)
	attrs    []slog.Attr // Attributes for structured logging
	sentinel *Error
	category bool
}

// NewError creates a new sentinel Error of the given kind.
func NewError(kind Kind, msg string) *Error {
	e := &Error{msg: msg, kind: kind}
	e.sentinel = e

	return e
}

func newCategory(kind Kind) *Error {
	e := NewError(kind, kind.String())
	e.category = true

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	e := &Error{err: err, kind: KindRuntime}
	e.sentinel = e

	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	for _, a := range e.attrs {
		if a.Key == "name" || a.Key == "got" {
			part = append(part, a.Value.String())

			break
		}
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from, or the
// category sentinel of e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.category {
		return e.kind == t.kind
	}

	return e.sentinel != nil && e.sentinel == t.sentinel
}

// Kind returns the failure family of e.
func (e *Error) Kind() Kind { return e.kind }

// Attr returns the value of the structured attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for i := len(e.attrs) - 1; i >= 0; i-- {
		if e.attrs[i].Key == key {
			return e.attrs[i].Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.kind != KindUnknown {
		attrs = append(attrs, slog.String("kind", e.kind.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:      e.msg,
		kind:     e.kind,
		err:      err,
		attrs:    e.attrs, // Share attrs
		sentinel: e.sentinel,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:      e.msg,
		kind:     e.kind,
		err:      e.err,
		attrs:    newAttrs,
		sentinel: e.sentinel,
	}
}

// KindOf returns the [Kind] of the first [Error] in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}

	return KindUnknown
}
