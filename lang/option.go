package lang

import (
	"github.com/ardnew/quasi/log"
)

// DefaultMaxDepth is the default maximum nesting depth of expressions
// visited by the expander and the evaluator.
const DefaultMaxDepth = 1000

// Engine expands and evaluates scoped quotes. An Engine holds only
// configuration, so a single Engine may serve concurrent callers.
type Engine struct {
	logger     log.Logger
	names      *Scope
	maxDepth   int
	strictMask bool
}

// Option configures an [Engine] or the parser.
type Option func(*Engine)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxDepth sets the maximum expression nesting depth.
// Non-positive values restore [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}

		e.maxDepth = depth
	}
}

// WithStrictMask makes the data mask take precedence over every frame of a
// quote's bundled scope, including the frame the quote was captured in.
//
// By default a quote's capture frame is private: a symbol bound there
// resolves to that binding even when the data mask binds the same name.
func WithStrictMask(strict bool) Option {
	return func(e *Engine) {
		e.strictMask = strict
	}
}

// WithNames sets the scope used by the parser to recognize hyphenated names
// such as "log-level" that would otherwise parse as subtraction.
func WithNames(names *Scope) Option {
	return func(e *Engine) {
		e.names = names
	}
}

// applyDefaults sets default option values on an Engine.
func applyDefaults(e *Engine) {
	e.maxDepth = DefaultMaxDepth
}

// applyOptions applies functional options to an Engine.
func applyOptions(e *Engine, opts ...Option) {
	for _, opt := range opts {
		opt(e)
	}
}

// NewEngine creates an Engine configured with opts.
func NewEngine(opts ...Option) *Engine {
	e := new(Engine)

	applyDefaults(e)
	applyOptions(e, opts...)

	return e
}

// Logger returns the engine's logger.
func (e *Engine) Logger() log.Logger { return e.logger }

var defaultEngine = NewEngine()
