package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed trees keyed by the hash of their source and the
// options that affect parsing. Trees are immutable, so cached trees are
// shared by every caller.
var globalCache sync.Map

// state tracks the parse of one source.
type state struct {
	once sync.Once
	node Node
	err  error
}

// hashOptions hashes the options that change the parsed tree.
func hashOptions(e *Engine) uint64 {
	return xxh3.HashString("max_depth=" + strconv.Itoa(e.maxDepth))
}

// ParseReader parses surface syntax read from r. Parsed trees are cached
// by content, so parsing the same source again returns the same tree.
// The cache is bypassed when [WithNames] is given, since the patched tree
// depends on the bound names.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (Node, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	e := NewEngine(opts...)

	e.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	if e.names != nil {
		e.logger.TraceContext(ctx, "cache bypass", slog.Bool("patch_names", true))

		return ParseString(ctx, string(data), opts...)
	}

	return parseStringCached(ctx, e, string(data), opts...)
}

func parseStringCached(
	ctx context.Context,
	e *Engine,
	source string,
	opts ...Option,
) (Node, error) {
	sourceHash := xxh3.HashString(source)
	optsHash := hashOptions(e)
	sourceKey := strconv.FormatUint(sourceHash^optsHash, 36)

	value, cacheHit := globalCache.LoadOrStore(sourceKey, new(state))

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrParse.With(slog.String("issue", "invalid cache entry"))
	}

	e.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		entry.node, entry.err = ParseString(ctx, source, opts...)
	})

	return entry.node, entry.err
}

// ClearCache removes all cached trees.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
