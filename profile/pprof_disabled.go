//go:build !pprof

package profile

// Enabled reports whether the binary was built with the pprof tag.
const Enabled = false

// Modes returns nil without the pprof build tag.
func Modes() []string { return nil }

func start(Profiler) interface{ Stop() } { return ignore{} }
