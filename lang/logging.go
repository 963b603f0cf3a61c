package lang

import (
	"context"
	"log/slog"
	"reflect"
	"sort"

	"github.com/ardnew/quasi/log"
)

// tracing reports whether the engine emits trace records, so callers can skip
// building attributes that walk the tree.
func (e *Engine) tracing(ctx context.Context) bool {
	return e.logger.Enabled(ctx, log.LevelTrace)
}

// exprValue renders a node only when a handler resolves it.
type exprValue struct{ n Node }

func (v exprValue) LogValue() slog.Value {
	if v.n == nil {
		return slog.StringValue("")
	}

	return slog.StringValue(v.n.String())
}

func exprAttr(key string, n Node) slog.Attr {
	return slog.Any(key, exprValue{n})
}

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func resultTypeName(value any) string {
	if value == nil {
		return "nil"
	}

	return reflect.TypeOf(value).String()
}
