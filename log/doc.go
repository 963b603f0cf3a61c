// Package log is a small layer over [log/slog] used by every quasi package.
//
// A [Logger] is a value. Its zero value discards all records, so types that
// embed one need no initialization to stay silent:
//
//	e := lang.NewEngine(lang.WithLogger(log.Make(os.Stderr, log.WithLevel(log.LevelTrace))))
//
// Configuration is applied with functional options when the logger is built:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// # Levels
//
// In addition to the four [log/slog] levels, [LevelTrace] sits below
// [LevelDebug]. The expression engine reports each phase transition,
// unquote, splice, and call at trace level.
//
// # Package logger
//
// The package-level functions ([Info], [DebugContext], ...) write through a
// shared logger that [Config] rebuilds. Functions without a context argument
// use [DefaultContextProvider].
//
// # Pretty output
//
// [WithPretty] renders records for a terminal. Colors come from
// lipgloss and are disabled automatically when the output is not a TTY.
package log
