// Package lang implements deferred evaluation of captured expressions.
//
// A function that wants an argument as syntax rather than as a value
// captures it: the expression tree is bundled with the lexical scope it was
// written in, forming a [Quote]. The quote can then be expanded, rewriting
// its quasiquote markers, and evaluated any number of times, each time with
// an optional data mask supplying run-time bindings.
//
// # Pipeline
//
//	node, _ := lang.ParseString(ctx, "mul(v, !!factor)")
//	scope := lang.NewScope(lang.Builtins())
//	_ = scope.Bind("factor", 2)
//	q := lang.Capture(node, scope)      // freezes scope
//	q, _ = lang.Expand(ctx, q)          // mul(v, 2)
//	for _, row := range rows {
//		v, _ := lang.Evaluate(ctx, q, row) // row binds v
//	}
//
// # Evaluation phases
//
// Nothing is evaluated when a quote is captured. During expansion every
// [Unquote] and [Splice] is evaluated in the quote's own scope, with no data
// mask, and every [DefinitionArg] has its name computed. Everything else is
// evaluated only by [Evaluate].
//
// # Scoping
//
// A symbol resolves through, in order:
//
//  1. the frame the quote was captured in
//  2. the data mask, if any
//  3. the ancestors of the capture frame
//
// A quote embedded in another by unquoting it keeps resolving through its
// own scope, while the data mask applies to every quote reached during one
// evaluation. [WithStrictMask] moves the data mask in front of the capture
// frame.
//
// # Surface syntax
//
// [ParseString] accepts expr-lang syntax. Two bangs unquote, three splice:
//
//	f(!!x)              unquote x during expansion
//	f(!!!xs)            splice the sequence xs into f's arguments
//	f(define(!!n, 1))   named argument whose name is the value of n
//	quote(a + b)        the expression a + b as syntax
package lang
