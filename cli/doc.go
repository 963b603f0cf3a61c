// Package cli contains the command line interface for quasi.
//
// # Usage
//
//	quasi [flags] <command> [EXPR]
//
// Without a command, quasi evaluates EXPR:
//
//	quasi 'path.cat(cwd(), "bin")'
//	quasi eval -b n=5 -m x=2 '!!n * x'
//	quasi rows -f prices.yaml '!!taxed * qty' -o json
//	quasi repl -f prices.yaml
//
// # Configuration
//
// Flags are read, lowest precedence first, from config.json and config.yaml
// in the per-user configuration directory, from QUASI_* environment
// variables, and from the command line. The init command writes the current
// flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (json, text)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, ms, none, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o quasi .
//
// It adds these flags:
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default ~/.cache/quasi/pprof)
package cli
