// Package profile wraps [github.com/pkg/profile] behind a build tag.
//
// Built without the "pprof" tag, [Profiler.Start] is a no-op and [Modes]
// is empty, so release binaries carry no profiling code. With the tag,
// the quasi command accepts --pprof-mode and --pprof-dir:
//
//	go build -tags pprof .
//	./quasi --pprof-mode cpu rows -f data.yaml 'price * qty'
//	go tool pprof -http=: ~/.cache/quasi/pprof/cpu.pprof
//
// The pprof build also registers the [net/http/pprof] handlers.
package profile
